package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/manumittu/unitracker/apps/api/echo"
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
	emailsvc "github.com/manumittu/unitracker/services/email"
	logsvc "github.com/manumittu/unitracker/services/logger"
	"github.com/manumittu/unitracker/storage/database"
	pgrepos "github.com/manumittu/unitracker/storage/database/postgres"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(pgrepos.NewUserRepository(db), mailSvc, conf)
	courseSvc := course.NewService(pgrepos.NewCourseRepository(db))
	timetableSvc := timetable.NewService(pgrepos.NewTimetableRepository(db))
	quizSvc := quiz.NewService(pgrepos.NewQuizRepository(db))
	canteenSvc := canteen.NewService(pgrepos.NewCanteenRepository(db))
	busSvc := bus.NewService(pgrepos.NewBusRepository(db))
	lostFoundSvc := lostfound.NewService(pgrepos.NewLostFoundRepository(db))
	appealSvc := appeal.NewService(pgrepos.NewAppealRepository(db))
	projectSvc := project.NewService(pgrepos.NewProjectRepository(db))
	feedbackSvc := feedback.NewService(pgrepos.NewFeedbackRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:         conf,
			Logger:       logger,
			Validate:     validate,
			Translator:   translator,
			UserSvc:      usrSvc,
			CourseSvc:    courseSvc,
			TimetableSvc: timetableSvc,
			QuizSvc:      quizSvc,
			CanteenSvc:   canteenSvc,
			BusSvc:       busSvc,
			LostFoundSvc: lostFoundSvc,
			AppealSvc:    appealSvc,
			ProjectSvc:   projectSvc,
			FeedbackSvc:  feedbackSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
