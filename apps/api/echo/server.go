package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"go.uber.org/dig"

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
)

// ServerDeps holds everything the API needs; it doubles as a dig parameter object.
type ServerDeps struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator

	UserSvc    user.Service
	FacultySvc faculty.Service
	TeacherSvc teacher.Service
	GroupSvc   group.Service
	StudentSvc student.Service
	PeriodSvc  period.Service
	FitnessSvc fitness.Service
	SportSvc   sport.Service
	JournalSvc journal.Service
}

type Server struct {
	deps     ServerDeps
	app      *echo.Echo
	jwtConf  middleware.JWTConfig
	errors   chan error
	shutdown chan os.Signal
}

var _ http.Handler = (*Server)(nil)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		jwtConf:  newJWTConfig(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	if !deps.Conf.TestMode {
		signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(s.jwtConf)
	authed := api.Group("", jwt, s.activeUserMiddleware())

	registerSessionAPI(api, authed, s)
	registerUserAPI(authed, s)
	registerFacultyAPI(authed, s)
	registerTeacherAPI(authed, s)
	registerGroupAPI(authed, s)
	registerStudentAPI(authed, s)
	registerPeriodAPI(authed, s)
	registerFitnessAPI(authed, s)
	registerSportAPI(authed, s)
	registerJournalAPI(authed, s)
	registerReportAPI(authed, s)
}

// Start listens on the configured host; failures are reported on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errors <- errors.Wrap(err, "starting server")
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown asks the main goroutine to stop the server gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signaled
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" API!")
}
