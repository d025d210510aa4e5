package progress

import (
	"net/http"

	"github.com/saulo-duarte/learnpath/internal/auth"
	"github.com/saulo-duarte/learnpath/internal/config"
)

type Handler struct {
	service ProgressService
}

func NewHandler(s ProgressService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) SubmitLessonProgress(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		config.Error(w, r, err)
		return
	}

	lessonID, err := config.PathUUID(r, "lessonId")
	if err != nil {
		config.Error(w, r, err)
		return
	}

	var req LessonProgressRequest
	if err := config.Decode(r, &req); err != nil {
		config.Error(w, r, err)
		return
	}

	res, err := h.service.SubmitLessonProgress(r.Context(), id.UserID, lessonID, req.Completed, req.TimeSpentDelta)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, res)
}

func (h *Handler) GetCourseProgress(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		config.Error(w, r, err)
		return
	}

	courseID, err := config.PathUUID(r, "courseId")
	if err != nil {
		config.Error(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), id.UserID, courseID)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, summary)
}

func (h *Handler) ResetCourseProgress(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		config.Error(w, r, err)
		return
	}

	courseID, err := config.PathUUID(r, "courseId")
	if err != nil {
		config.Error(w, r, err)
		return
	}

	if err := h.service.Reset(r.Context(), id.UserID, courseID); err != nil {
		config.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
