package progress

import (
	"github.com/saulo-duarte/learnpath/internal/course"
)

type ProgressContainer struct {
	Service ProgressService
	Handler *Handler
}

// NewProgressContainer takes its repository from the caller, since the
// certificate issuer it depends on checks completion through the same one.
func NewProgressContainer(
	repo Repository,
	content course.Repository,
	enrollments EnrollmentGate,
	attempts AttemptCounter,
	issuer Issuer,
	opts Options,
) *ProgressContainer {
	service := NewService(repo, content, enrollments, attempts, issuer, opts)

	return &ProgressContainer{
		Service: service,
		Handler: NewHandler(service),
	}
}
