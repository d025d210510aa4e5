package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saulo-duarte/learnpath/internal/auth"
	"github.com/saulo-duarte/learnpath/internal/certificate"
	"github.com/saulo-duarte/learnpath/internal/certlevel"
	"github.com/saulo-duarte/learnpath/internal/config"
	"github.com/saulo-duarte/learnpath/internal/course"
	"github.com/saulo-duarte/learnpath/internal/enrollment"
	"github.com/saulo-duarte/learnpath/internal/middlewares"
	"github.com/saulo-duarte/learnpath/internal/progress"
	"github.com/saulo-duarte/learnpath/internal/quiz"
	"github.com/saulo-duarte/learnpath/internal/user"
)

type RouterConfig struct {
	CorsOrigins []string

	UserHandler        *user.Handler
	CourseHandler      *course.Handler
	EnrollmentHandler  *enrollment.Handler
	ProgressHandler    *progress.Handler
	QuizHandler        *quiz.Handler
	CertificateHandler *certificate.Handler
	LevelHandler       *certlevel.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.Cors(cfg.CorsOrigins))

	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/logout", auth.NewHandler().Logout)

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/courses", course.Routes(cfg.CourseHandler))
		r.Mount("/lessons", progress.LessonRoutes(cfg.ProgressHandler))
		r.Mount("/quizzes", quiz.Routes(cfg.QuizHandler))
		r.Mount("/quiz-attempts", quiz.AttemptRoutes(cfg.QuizHandler))
		r.Mount("/certificates", certificate.Routes(cfg.CertificateHandler))
		r.Mount("/certification-levels", certlevel.Routes(cfg.LevelHandler))
		r.Mount("/admin/certification-levels", certlevel.AdminRoutes(cfg.LevelHandler))

		r.Post("/courses/{courseId}/enroll", cfg.EnrollmentHandler.Enroll)
		r.Get("/courses/{courseId}/progress", cfg.ProgressHandler.GetCourseProgress)
		r.Delete("/courses/{courseId}/progress", cfg.ProgressHandler.ResetCourseProgress)
		r.Post("/courses/{courseId}/certificate", cfg.CertificateHandler.IssueCertificate)
	})
	return r
}
