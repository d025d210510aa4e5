package quiz

import (
	"github.com/saulo-duarte/learnpath/internal/course"
)

type QuizContainer struct {
	Repo    QuizRepository
	Service QuizService
	Handler *Handler
}

// NewQuizContainer takes the repository from the caller because the
// progress tracker listening to outcomes counts attempts through it too.
func NewQuizContainer(repo QuizRepository, content course.Repository, enrollments EnrollmentGate, listener OutcomeListener) *QuizContainer {
	service := NewService(repo, content, enrollments, listener)

	return &QuizContainer{
		Repo:    repo,
		Service: service,
		Handler: NewHandler(service),
	}
}
