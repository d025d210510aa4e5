package certlevel

import (
	"github.com/saulo-duarte/learnpath/internal/course"
	"github.com/saulo-duarte/learnpath/internal/render"
	"gorm.io/gorm"
)

type LevelContainer struct {
	Repository Repository
	Service    LevelService
	Handler    *Handler
}

func NewLevelContainer(db *gorm.DB, content course.Repository, certificates CertificateLookup, renderer render.Renderer, opts Options) *LevelContainer {
	repo := NewRepository(db)
	service := NewService(repo, content, certificates, renderer, opts)

	return &LevelContainer{
		Repository: repo,
		Service:    service,
		Handler:    NewHandler(service),
	}
}
