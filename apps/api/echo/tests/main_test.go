package tests

import (
	"os"
	"testing"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
	appfs "github.com/ShinzTer/phys-diary-sub000/fs"
)

func TestMain(m *testing.M) {
	logger := newTestLogger(core.NewTestConfig())
	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, true /* strict */, logger)
	user.LoadCommonPasswords(appfs.FS, appfs.CommonPasswords, logger)

	os.Exit(m.Run())
}
