package quiz

import (
	"net/http"

	"github.com/saulo-duarte/learnpath/internal/auth"
	"github.com/saulo-duarte/learnpath/internal/config"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		config.Error(w, r, err)
		return
	}

	quizID, err := config.PathUUID(r, "quizId")
	if err != nil {
		config.Error(w, r, err)
		return
	}

	view, err := h.service.StartOrResume(r.Context(), id.UserID, quizID)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	status := http.StatusCreated
	if view.Resumed {
		status = http.StatusOK
	}
	config.JSON(w, status, view)
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		config.Error(w, r, err)
		return
	}

	attemptID, err := config.PathUUID(r, "attemptId")
	if err != nil {
		config.Error(w, r, err)
		return
	}

	var req SubmitAttemptRequest
	if err := config.Decode(r, &req); err != nil {
		config.Error(w, r, err)
		return
	}

	view, err := h.service.Submit(r.Context(), id.UserID, attemptID, req.Answers)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, view)
}
