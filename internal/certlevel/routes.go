package certlevel

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/learnpath/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListLevels)
	r.Post("/{levelId}/unlock", h.UnlockLevel)
	r.Get("/achievements/{achievementId}/document", h.DownloadAchievement)
	return r
}

func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(auth.RoleAdmin))

	r.Post("/{levelId}/access-rules", h.AddAccessRule)
	r.Delete("/{levelId}", h.DeleteLevel)
	return r
}
