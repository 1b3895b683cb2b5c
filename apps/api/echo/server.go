package echoapi

import (
	"context"
	"net/http"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/attendance"
	"github.com/trezcool/register/core/classregister"
	"github.com/trezcool/register/core/incident"
	"github.com/trezcool/register/core/student"
)

type (
	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		StudentSvc  *student.Service
		Ledger      *attendance.Ledger
		Summarizer  *attendance.Summarizer
		IncidentSvc *incident.Service
		RegisterSvc *classregister.Service
	}

	Server struct {
		*Deps
		addr         string
		app          *echo.Echo
		shutdown     chan os.Signal
		serverErrors chan error
	}
)

// NewServer sets up the API. shutdown receives the signals that stop the server (a new channel when nil).
func NewServer(addr string, shutdown chan os.Signal, deps *Deps) *Server {
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
	}
	if deps.Logger == nil {
		deps.Logger = core.NopLogger{}
	}
	s := &Server{
		Deps:         deps,
		addr:         addr,
		app:          echo.New(),
		shutdown:     shutdown,
		serverErrors: make(chan error, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	var debug, testMode, disableReqLogs bool
	if s.Conf != nil {
		debug, testMode, disableReqLogs = s.Conf.Debug, s.Conf.TestMode, s.Conf.Server.DisableReqLogs
	}

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !disableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || testMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger, s.Translator)
	s.app.Debug = debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	registerStudentAPI(v1, s.StudentSvc)
	registerAttendanceAPI(v1, s.Ledger)
	registerSummaryAPI(v1, s.Summarizer)
	registerIncidentAPI(v1, s.IncidentSvc)
	registerClassRegisterAPI(v1, s.RegisterSvc)
}

// Start blocks until the server stops; failures are reported on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.serverErrors <- err
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) Errors() <-chan error {
	return s.serverErrors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	name := "Register"
	if s.Conf != nil && s.Conf.AppName != "" {
		name = s.Conf.AppName
	}
	return ctx.String(http.StatusOK, "Welcome to "+name+" API!")
}
