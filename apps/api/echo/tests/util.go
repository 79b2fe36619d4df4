package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

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
	"github.com/ShinzTer/phys-diary-sub000/storage/database/inmemdb"
	testutil "github.com/ShinzTer/phys-diary-sub000/tests"
)

const testPassword = "Kr0ss!Tr@ck"

var (
	errMissingSession = echoapi.ErrorResponse{Message: "user not authenticated"}
	errForbidden      = echoapi.ErrorResponse{Message: "permission denied"}
	errNotFound       = echoapi.ErrorResponse{Message: "not found"}
)

// testEnv is a server backed by a fresh in-memory store.
type testEnv struct {
	app  *echoapi.Server
	conf *core.Config

	usrRepo     user.Repository
	facRepo     faculty.Repository
	teacRepo    teacher.Repository
	grpRepo     group.Repository
	stdRepo     student.Repository
	periodRepo  period.Repository
	fitnessRepo fitness.Repository
	sportRepo   sport.Repository
	journalRepo journal.Repository
}

func newTestLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	conf := core.NewTestConfig()
	logger := newTestLogger(conf)

	// set up DB & repos
	db := inmemdb.Open()
	t.Cleanup(func() { _ = db.Close() })
	env := &testEnv{
		conf:        conf,
		usrRepo:     inmemdb.NewUserRepository(db),
		facRepo:     inmemdb.NewFacultyRepository(db),
		teacRepo:    inmemdb.NewTeacherRepository(db),
		grpRepo:     inmemdb.NewGroupRepository(db),
		stdRepo:     inmemdb.NewStudentRepository(db),
		periodRepo:  inmemdb.NewPeriodRepository(db),
		fitnessRepo: inmemdb.NewFitnessRepository(db),
		sportRepo:   inmemdb.NewSportRepository(db),
		journalRepo: inmemdb.NewJournalRepository(db),
	}

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	usrSvc := user.NewService(env.usrRepo, mailSvc, conf)
	facSvc := faculty.NewService(env.facRepo)
	teacSvc := teacher.NewService(env.teacRepo, usrSvc, facSvc)
	grpSvc := group.NewService(env.grpRepo, facSvc, teacSvc)
	stdSvc := student.NewService(env.stdRepo, usrSvc, grpSvc)
	periodSvc := period.NewService(env.periodRepo)
	fitnessSvc := fitness.NewService(env.fitnessRepo, stdSvc, periodSvc)
	sportSvc := sport.NewService(env.sportRepo, stdSvc, grpSvc, periodSvc)
	journalSvc := journal.NewService(env.journalRepo, stdSvc, periodSvc, fitnessSvc, sportSvc)

	// translations are registered once per translator
	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	period.InitValidators(validate, translator)

	// set up server
	env.app = echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		UserSvc:    usrSvc,
		FacultySvc: facSvc,
		TeacherSvc: teacSvc,
		GroupSvc:   grpSvc,
		StudentSvc: stdSvc,
		PeriodSvc:  periodSvc,
		FitnessSvc: fitnessSvc,
		SportSvc:   sportSvc,
		JournalSvc: journalSvc,
	})
	return env
}

// academy is the smallest school the access rules can be checked against.
type academy struct {
	admin, teacherUsr, heroUsr, rivalUsr user.User

	faculty faculty.Faculty
	teacher teacher.Teacher
	group   group.Group
	hero    student.Student
	rival   student.Student
	period  period.Period
}

func (env *testEnv) createAcademy(t *testing.T) academy {
	t.Helper()
	var a academy
	a.admin = testutil.CreateUser(t, env.usrRepo, "Admin", "admin", "admin@test.ru", testPassword, user.RoleAdmin, true)
	a.teacherUsr = testutil.CreateUser(t, env.usrRepo, "Teacher", "teacher", "teacher@test.ru", testPassword, user.RoleTeacher, true)
	a.heroUsr = testutil.CreateUser(t, env.usrRepo, "Hero", "hero", "hero@test.ru", testPassword, user.RoleStudent, true)
	a.rivalUsr = testutil.CreateUser(t, env.usrRepo, "Rival", "rival", "rival@test.ru", testPassword, user.RoleStudent, true)

	a.faculty = testutil.CreateFaculty(t, env.facRepo, "Физкультура")
	a.teacher = testutil.CreateTeacher(t, env.teacRepo, a.teacherUsr, a.faculty.ID)
	a.group = testutil.CreateGroup(t, env.grpRepo, "ФК-101", a.faculty.ID, null.IntFrom(a.teacher.ID))
	a.hero = testutil.CreateStudent(t, env.stdRepo, a.heroUsr, a.group.ID)
	a.rival = testutil.CreateStudent(t, env.stdRepo, a.rivalUsr, a.group.ID)
	a.period = testutil.CreatePeriod(t, env.periodRepo, period.Semester1)
	return a
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte // not checked when nil
	extra    interface{}
}

func (env *testEnv) newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: env.conf.Server.SessionCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func (env *testEnv) newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return env.newAuthRequest(method, path, "", data...)
}

func (env *testEnv) serve(tt httpTest) *httptest.ResponseRecorder {
	req, rec := env.newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	env.app.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := echoapi.GenerateToken(env.conf, echoapi.GetUserClaims(env.conf, usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshallList() failed: %v", err)
	}
	return data
}

func validationErr(t *testing.T, fields map[string]string) []byte {
	return marshallObj(t, echoapi.ErrorResponse{Message: "validation failed", Errors: fields})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code, "body: %s", rec.Body.String())
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runTests(t *testing.T, env *testEnv, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, env.serve(tt))
		})
	}
}
