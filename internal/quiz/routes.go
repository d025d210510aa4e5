package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/{quizId}/attempts", h.StartAttempt)
	return r
}

func AttemptRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/{attemptId}/submit", h.SubmitAttempt)
	return r
}
