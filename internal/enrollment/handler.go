package enrollment

import (
	"net/http"

	"github.com/saulo-duarte/learnpath/internal/auth"
	"github.com/saulo-duarte/learnpath/internal/config"
)

type Handler struct {
	service EnrollmentService
}

func NewHandler(s EnrollmentService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
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

	e, err := h.service.Enroll(r.Context(), id.Principal(), courseID)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, e)
}
