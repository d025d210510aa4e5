package certificate

import (
	"github.com/saulo-duarte/learnpath/internal/course"
	"github.com/saulo-duarte/learnpath/internal/render"
	"gorm.io/gorm"
)

type CertificateContainer struct {
	Repo    Repository
	Service CertificateService
	Handler *Handler
}

func NewCertificateContainer(db *gorm.DB, content course.Repository, checker CompletionChecker, renderer render.Renderer, opts Options) *CertificateContainer {
	repo := NewRepository(db)
	service := NewService(repo, content, checker, renderer, opts)

	return &CertificateContainer{
		Repo:    repo,
		Service: service,
		Handler: NewHandler(service),
	}
}
