package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
	"github.com/ShinzTer/phys-diary-sub000/storage/database/inmemdb"
	testutil "github.com/ShinzTer/phys-diary-sub000/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	usrRepo = inmemdb.NewUserRepository(inmemdb.Open())

	return &commandLine{
		conf:    core.NewTestConfig(),
		db:      sqlx.NewDb(new(sql.DB), "postgres"),
		usrRepo: usrRepo,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func mockPassword(pwd string) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		return []byte(pwd), nil
	}
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest, before func(tt cliTest)) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		if before != nil {
			before(tt)
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	migrateFunc = func(db *sqlx.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}, nil)

	t.Run("no SQL database", func(t *testing.T) {
		memCLI := &commandLine{conf: core.NewTestConfig(), usrRepo: usrRepo}
		assert.Equal(t, errNoDB, memCLI.run([]string{"admin", "migrate", "up"}))
	})
}

func Test_commandLine_createDB(t *testing.T) {
	cli := setup(t)

	var called bool
	createDBFunc = func(ctx context.Context, conf *core.Config) error {
		called = true
		assert.Equal(t, cli.conf, conf)
		return nil
	}

	require.NoError(t, cli.run([]string{"admin", "createdb"}))
	assert.True(t, called)
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	existing := testutil.CreateUser(t, usrRepo, "Old Name", "coach", "coach@test.ru", "oldpwd", user.RoleStudent, false)

	type extra struct {
		pwd string
	}
	runCLITests(t, cli, []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "no email", args: []string{"adduser", "-username", "boss"}, extra: extra{pwd: "pwd"}, wantErr: errHelp},
		{name: "invalid role", args: []string{"adduser", "-username", "boss", "-email", "boss@test.ru", "-role", "janitor"}, extra: extra{pwd: "pwd"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-username", "boss", "-email", "boss@test.ru"}, wantErr: errHelp},
		{name: "create admin", args: []string{"adduser", "-username", "Boss", "-email", "BOSS@test.ru", "-admin"}, extra: extra{pwd: "b0ssPwd!"}},
		{
			name: "update existing", args: []string{"adduser", "-username", "coach", "-email", "coach@test.ru", "-name", "Coach", "-role", "teacher"},
			extra: extra{pwd: "c0achPwd!"},
		},
	}, func(tt cliTest) {
		pwd := ""
		if e, ok := tt.extra.(extra); ok {
			pwd = e.pwd
		}
		mockPassword(pwd)
	})

	boss, err := usrRepo.GetUser(context.Background(), user.GetFilter{Username: "boss"})
	require.NoError(t, err)
	assert.Equal(t, "boss@test.ru", boss.Email)
	assert.Equal(t, "boss", boss.Name)
	assert.Equal(t, user.RoleAdmin, boss.Role)
	assert.True(t, boss.IsActive)
	assert.NoError(t, boss.CheckPassword("b0ssPwd!"))

	coach, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: existing.ID})
	require.NoError(t, err)
	assert.Equal(t, "Coach", coach.Name)
	assert.Equal(t, user.RoleTeacher, coach.Role)
	assert.True(t, coach.IsActive)
	assert.NoError(t, coach.CheckPassword("c0achPwd!"))
	assert.Equal(t, existing.CreatedAt, coach.CreatedAt)
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "User", "awe", "awe@test.ru", "mdr", user.RoleStudent, true)

	type extra struct {
		pwd string
	}
	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "lol"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", "AWE@test.ru"}, extra: extra{pwd: "lmao"}},
	}, func(tt cliTest) {
		pwd := ""
		if e, ok := tt.extra.(extra); ok {
			pwd = e.pwd
		}
		mockPassword(pwd)
	})

	refreshed, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
	require.NoError(t, err)
	assert.Error(t, refreshed.CheckPassword("mdr"))
	assert.NoError(t, refreshed.CheckPassword("lmao"))
}
