package auth

import (
	"net/http"

	"github.com/saulo-duarte/learnpath/internal/config"
)

// SessionCookie carries the token for browser clients that do not send
// an Authorization header.
const SessionCookie = "jwt"

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Logout expires the session cookie. Bearer tokens stay valid until they
// expire since the identity provider owns them.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	config.WithContext(r.Context()).Debug("Session cookie cleared")
	w.WriteHeader(http.StatusNoContent)
}
