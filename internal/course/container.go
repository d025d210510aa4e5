package course

import "gorm.io/gorm"

type CourseContainer struct {
	Repository Repository
	Service    CourseService
	Handler    *Handler
}

func NewCourseContainer(db *gorm.DB) *CourseContainer {
	repo := NewRepository(db)
	service := NewService(repo)

	return &CourseContainer{
		Repository: repo,
		Service:    service,
		Handler:    NewHandler(service),
	}
}
