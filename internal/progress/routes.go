package progress

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func LessonRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/{lessonId}/progress", h.SubmitLessonProgress)
	return r
}
