package enrollment

import "gorm.io/gorm"

type EnrollmentContainer struct {
	Repo    Repository
	Service EnrollmentService
	Handler *Handler
}

func NewEnrollmentContainer(db *gorm.DB, courses CourseGate) *EnrollmentContainer {
	repo := NewRepository(db)
	service := NewService(repo, courses)

	return &EnrollmentContainer{
		Repo:    repo,
		Service: service,
		Handler: NewHandler(service),
	}
}
