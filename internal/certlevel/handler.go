package certlevel

import (
	"net/http"

	"github.com/saulo-duarte/learnpath/internal/auth"
	"github.com/saulo-duarte/learnpath/internal/config"
)

type Handler struct {
	service LevelService
}

func NewHandler(s LevelService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) ListLevels(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		config.Error(w, r, err)
		return
	}

	views, err := h.service.ListForUser(r.Context(), id)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, views)
}

func (h *Handler) UnlockLevel(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		config.Error(w, r, err)
		return
	}

	levelID, err := config.PathUUID(r, "levelId")
	if err != nil {
		config.Error(w, r, err)
		return
	}

	ul, err := h.service.Unlock(r.Context(), id, levelID)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, ul)
}

func (h *Handler) DownloadAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		config.Error(w, r, err)
		return
	}

	achievementID, err := config.PathUUID(r, "achievementId")
	if err != nil {
		config.Error(w, r, err)
		return
	}

	ul, err := h.service.DownloadAchievement(r.Context(), achievementID, id)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	config.Binary(w, "application/pdf", ul.CertificateNumber+".pdf", ul.Document)
}

func (h *Handler) AddAccessRule(w http.ResponseWriter, r *http.Request) {
	levelID, err := config.PathUUID(r, "levelId")
	if err != nil {
		config.Error(w, r, err)
		return
	}

	var req AccessRuleRequest
	if err := config.Decode(r, &req); err != nil {
		config.Error(w, r, err)
		return
	}

	rule, err := h.service.AddAccessRule(r.Context(), levelID, req.Rule())
	if err != nil {
		config.Error(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, rule)
}

func (h *Handler) DeleteLevel(w http.ResponseWriter, r *http.Request) {
	levelID, err := config.PathUUID(r, "levelId")
	if err != nil {
		config.Error(w, r, err)
		return
	}

	if err := h.service.DeleteLevel(r.Context(), levelID); err != nil {
		config.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
