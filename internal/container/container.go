package container

import (
	"context"
	"net/http"

	"github.com/saulo-duarte/learnpath/internal/auth"
	"github.com/saulo-duarte/learnpath/internal/certificate"
	"github.com/saulo-duarte/learnpath/internal/certlevel"
	"github.com/saulo-duarte/learnpath/internal/config"
	"github.com/saulo-duarte/learnpath/internal/course"
	"github.com/saulo-duarte/learnpath/internal/enrollment"
	"github.com/saulo-duarte/learnpath/internal/progress"
	"github.com/saulo-duarte/learnpath/internal/quiz"
	"github.com/saulo-duarte/learnpath/internal/render"
	"github.com/saulo-duarte/learnpath/internal/router"
	"github.com/saulo-duarte/learnpath/internal/user"
)

type Container struct {
	Settings *config.Settings

	UserContainer        *user.UserContainer
	CourseContainer      *course.CourseContainer
	EnrollmentContainer  *enrollment.EnrollmentContainer
	QuizContainer        *quiz.QuizContainer
	ProgressContainer    *progress.ProgressContainer
	CertificateContainer *certificate.CertificateContainer
	LevelContainer       *certlevel.LevelContainer
}

func New() *Container {
	settings := config.LoadSettings()
	config.Init(settings)
	auth.Init()

	if err := config.Connect(context.Background(), settings.DatabaseDSN); err != nil {
		config.Log.WithError(err).Fatal("Failed to connect to database")
	}
	if settings.AutoMigrate {
		if err := migrate(config.DB); err != nil {
			config.Log.WithError(err).Fatal("Failed to migrate database")
		}
	}

	db := config.DB
	renderer := render.NewClient(settings.RendererURL, settings.RendererTimeout, settings.RendererMaxAttempts)

	courseContainer := course.NewCourseContainer(db)
	courseRepo := courseContainer.Repository
	enrollmentContainer := enrollment.NewEnrollmentContainer(db, courseContainer.Service)

	// quiz and progress notify each other, and the certificate issuer reads
	// completion through progress, so the shared repositories are built here.
	quizRepo := quiz.NewRepository(db)
	progressRepo := progress.NewRepository(db)
	checker := progress.NewCompletionChecker(progressRepo, courseRepo)

	certificateContainer := certificate.NewCertificateContainer(db, courseRepo, checker, renderer, certificate.Options{
		SiteTitle: settings.SiteTitle,
	})
	progressContainer := progress.NewProgressContainer(
		progressRepo,
		courseRepo,
		enrollmentContainer.Service,
		quizRepo,
		certificateContainer.Service,
		progress.Options{FailOnExhaustedAttempts: settings.FailModuleOnExhaustedAttempts},
	)
	quizContainer := quiz.NewQuizContainer(quizRepo, courseRepo, enrollmentContainer.Service, progressContainer.Service)
	levelContainer := certlevel.NewLevelContainer(db, courseRepo, certificateContainer.Repo, renderer, certlevel.Options{
		Numbers:   certlevel.NumberSettings{Prefix: settings.CertificateNumberPrefix},
		SiteTitle: settings.SiteTitle,
	})

	return &Container{
		Settings:             settings,
		UserContainer:        user.NewUserContainer(enrollmentContainer.Repo),
		CourseContainer:      courseContainer,
		EnrollmentContainer:  enrollmentContainer,
		QuizContainer:        quizContainer,
		ProgressContainer:    progressContainer,
		CertificateContainer: certificateContainer,
		LevelContainer:       levelContainer,
	}
}

func (c *Container) Router() http.Handler {
	return router.New(router.RouterConfig{
		CorsOrigins:        c.Settings.CorsOrigins,
		UserHandler:        c.UserContainer.Handler,
		CourseHandler:      c.CourseContainer.Handler,
		EnrollmentHandler:  c.EnrollmentContainer.Handler,
		ProgressHandler:    c.ProgressContainer.Handler,
		QuizHandler:        c.QuizContainer.Handler,
		CertificateHandler: c.CertificateContainer.Handler,
		LevelHandler:       c.LevelContainer.Handler,
	})
}
