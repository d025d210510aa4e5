package user

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/auth"
	"github.com/saulo-duarte/learnpath/internal/config"
)

// CreditReader reads the enrollment credit balance of a user.
type CreditReader interface {
	Balance(ctx context.Context, userID uuid.UUID) (int, error)
}

type Profile struct {
	ID            uuid.UUID   `json:"id"`
	Role          auth.Role   `json:"role"`
	GroupIDs      []uuid.UUID `json:"group_ids"`
	CreditBalance int         `json:"credit_balance"`
}

type Handler struct {
	credits CreditReader
}

func NewHandler(credits CreditReader) *Handler {
	return &Handler{credits: credits}
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		config.Error(w, r, err)
		return
	}

	balance, err := h.credits.Balance(r.Context(), id.UserID)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	groups := id.GroupIDs
	if groups == nil {
		groups = []uuid.UUID{}
	}
	config.JSON(w, http.StatusOK, Profile{
		ID:            id.UserID,
		Role:          id.Role,
		GroupIDs:      groups,
		CreditBalance: balance,
	})
}
