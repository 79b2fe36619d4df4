package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/student"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
)

// RollbarLogger prints to a std logger and reports to rollbar when enabled.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// expected fmt: msg | error, map[string]interface{}, user.User, student.Student
//
// The User becomes the rollbar person and its role is added to the custom
// data along with the student and group IDs of a Student.
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var usrSet bool
	var custom map[string]interface{}
	newArgs := make([]interface{}, 0, len(args)+2)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		switch a := arg.(type) {
		case user.User:
			custom = l.setPerson(&a, usrSet, custom)
			usrSet = true
		case *user.User:
			custom = l.setPerson(a, usrSet, custom)
			usrSet = true
		case student.Student:
			custom = withCustom(custom, "student_id", a.ID)
			custom = withCustom(custom, "group_id", a.GroupID)
		case *student.Student:
			custom = withCustom(custom, "student_id", a.ID)
			custom = withCustom(custom, "group_id", a.GroupID)
		case map[string]interface{}:
			for k, v := range a {
				custom = withCustom(custom, k, v)
			}
		default:
			newArgs = append(newArgs, arg)
		}
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	if custom != nil {
		newArgs = append(newArgs, custom)
	}
	return newArgs
}

// only the first User is reported
func (l RollbarLogger) setPerson(usr *user.User, usrSet bool, custom map[string]interface{}) map[string]interface{} {
	if usr == nil || usrSet {
		return custom
	}
	rollbar.SetPerson(usr.ID, usr.Username, usr.Email)
	return withCustom(custom, "role", string(usr.Role))
}

func withCustom(custom map[string]interface{}, key string, val interface{}) map[string]interface{} {
	if custom == nil {
		custom = make(map[string]interface{})
	}
	custom[key] = val
	return custom
}

func (l RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		switch a := arg.(type) {
		case user.User, *user.User:
			continue
		case student.Student:
			l.std.Printf("student: %d (group %d)\n", a.ID, a.GroupID)
		case *student.Student:
			l.std.Printf("student: %d (group %d)\n", a.ID, a.GroupID)
		default:
			l.std.Printf("%+v\n", arg)
		}
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print(msg, args)
	l.std.Fatal(msg)
}
