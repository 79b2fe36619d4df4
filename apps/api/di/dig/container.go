package dig_container

import (
	"fmt"
	"io"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/ShinzTer/phys-diary-sub000/apps/api/echo"
	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/faculty"
	"github.com/ShinzTer/phys-diary-sub000/core/fitness"
	"github.com/ShinzTer/phys-diary-sub000/core/group"
	"github.com/ShinzTer/phys-diary-sub000/core/journal"
	"github.com/ShinzTer/phys-diary-sub000/core/period"
	"github.com/ShinzTer/phys-diary-sub000/core/sport"
	"github.com/ShinzTer/phys-diary-sub000/core/student"
	"github.com/ShinzTer/phys-diary-sub000/core/teacher"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
	emailsvc "github.com/ShinzTer/phys-diary-sub000/services/email"
	logsvc "github.com/ShinzTer/phys-diary-sub000/services/logger"
	"github.com/ShinzTer/phys-diary-sub000/storage/database"
	"github.com/ShinzTer/phys-diary-sub000/storage/database/inmemdb"
	sqlxrepos "github.com/ShinzTer/phys-diary-sub000/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Repositories are provided by the configured storage engine.
type Repositories struct {
	dig.Out

	DB       io.Closer
	Users    user.Repository
	Faculty  faculty.Repository
	Teachers teacher.Repository
	Groups   group.Repository
	Students student.Repository
	Periods  period.Repository
	Fitness  fitness.Repository
	Sport    sport.Repository
	Journal  journal.Repository
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!(conf.Debug || conf.TestMode))
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!(conf.Debug || conf.TestMode))
	return logger
}

func newRepositories(conf *core.Config, loggerParam DBLoggerParam) Repositories {
	if conf.Database.Engine == core.EngineMemory {
		db := inmemdb.Open()
		return Repositories{
			DB:       db,
			Users:    inmemdb.NewUserRepository(db),
			Faculty:  inmemdb.NewFacultyRepository(db),
			Teachers: inmemdb.NewTeacherRepository(db),
			Groups:   inmemdb.NewGroupRepository(db),
			Students: inmemdb.NewStudentRepository(db),
			Periods:  inmemdb.NewPeriodRepository(db),
			Fitness:  inmemdb.NewFitnessRepository(db),
			Sport:    inmemdb.NewSportRepository(db),
			Journal:  inmemdb.NewJournalRepository(db),
		}
	}

	db, err := database.Setup(conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return Repositories{
		DB:       db,
		Users:    sqlxrepos.NewUserRepository(db),
		Faculty:  sqlxrepos.NewFacultyRepository(db),
		Teachers: sqlxrepos.NewTeacherRepository(db),
		Groups:   sqlxrepos.NewGroupRepository(db),
		Students: sqlxrepos.NewStudentRepository(db),
		Periods:  sqlxrepos.NewPeriodRepository(db),
		Fitness:  sqlxrepos.NewFitnessRepository(db),
		Sport:    sqlxrepos.NewSportRepository(db),
		Journal:  sqlxrepos.NewJournalRepository(db),
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.TestMode {
		return emailsvc.NewConsoleServiceMock(conf, logger)
	}
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

// newValidate returns a validator with every custom tag registered.
func newValidate(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	period.InitValidators(validate, translator)
	return validate
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepositories))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidate))

	must(c.Provide(user.NewService))
	must(c.Provide(faculty.NewService))
	must(c.Provide(teacher.NewService))
	must(c.Provide(group.NewService))
	must(c.Provide(student.NewService))
	must(c.Provide(period.NewService))
	must(c.Provide(fitness.NewService))
	must(c.Provide(sport.NewService))
	must(c.Provide(journal.NewService))

	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
