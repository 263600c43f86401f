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

	"github.com/manumittu/unitracker/core"
	"github.com/manumittu/unitracker/core/appeal"
	"github.com/manumittu/unitracker/core/bus"
	"github.com/manumittu/unitracker/core/canteen"
	"github.com/manumittu/unitracker/core/course"
	"github.com/manumittu/unitracker/core/feedback"
	"github.com/manumittu/unitracker/core/lostfound"
	"github.com/manumittu/unitracker/core/project"
	"github.com/manumittu/unitracker/core/quiz"
	"github.com/manumittu/unitracker/core/timetable"
	"github.com/manumittu/unitracker/core/user"
)

type (
	// ServerDeps is all the dependencies the API server needs; wired up
	// explicitly in the entrypoint.
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		UserSvc      *user.Service
		CourseSvc    *course.Service
		TimetableSvc *timetable.Service
		QuizSvc      *quiz.Service
		CanteenSvc   *canteen.Service
		BusSvc       *bus.Service
		LostFoundSvc *lostfound.Service
		AppealSvc    *appeal.Service
		ProjectSvc   *project.Service
		FeedbackSvc  *feedback.Service
	}

	Server interface {
		http.Handler
		Start()
		Errors() chan error
		ShutdownSignal() chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := ConfigureAuth(conf)

	registerAuthAPI(api, jwt, s.deps)
	registerCourseAPI(api, jwt, s.deps)
	registerTimetableAPI(api, jwt, s.deps)
	registerQuizAPI(api, jwt, s.deps)
	registerCanteenAPI(api, jwt, s.deps)
	registerBusAPI(api, jwt, s.deps)
	registerLostFoundAPI(api, jwt, s.deps)
	registerAppealAPI(api, jwt, s.deps)
	registerProjectAPI(api, jwt, s.deps)
	registerFeedbackAPI(api, jwt, s.deps)
}

func (s *server) Start() {
	s.errs <- s.app.Start(s.deps.Conf.Server.Addr())
}

func (s *server) Errors() chan error {
	return s.errs
}

func (s *server) ShutdownSignal() chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to UniTracker API!")
}
