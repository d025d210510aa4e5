package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/access"
	"github.com/saulo-duarte/learnpath/internal/apperr"
	"github.com/saulo-duarte/learnpath/internal/config"
	"github.com/sirupsen/logrus"
)

type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

var ErrUnauthenticated = apperr.New(apperr.Unauthorized, "authentication required")

// Identity is the already authenticated caller of a request.
type Identity struct {
	UserID   uuid.UUID
	Role     Role
	GroupIDs []uuid.UUID
}

func (i Identity) Principal() access.Principal {
	return access.Principal{UserID: i.UserID, GroupIDs: i.GroupIDs}
}

func (i Identity) IsElevated() bool {
	return i.Role == RoleAdmin
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok {
		return Identity{}, ErrUnauthenticated
	}
	return id, nil
}

func identityFromClaims(c *Claims) (Identity, error) {
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.Unauthorized, "invalid user id in token", err)
	}
	groups := make([]uuid.UUID, 0, len(c.GroupIDs))
	for _, g := range c.GroupIDs {
		gid, err := uuid.Parse(g)
		if err != nil {
			return Identity{}, apperr.Wrap(apperr.Unauthorized, "invalid group id in token", err)
		}
		groups = append(groups, gid)
	}
	role := Role(strings.ToUpper(c.Role))
	if role == "" {
		role = RoleStudent
	}
	return Identity{UserID: userID, Role: role, GroupIDs: groups}, nil
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		tokenStr := tokenFromRequest(r)
		if tokenStr == "" {
			config.Error(w, r, ErrUnauthenticated)
			return
		}

		claims, err := ValidateJWT(tokenStr)
		if err != nil {
			log.WithError(err).Warn("Rejected invalid token")
			config.Error(w, r, apperr.Wrap(apperr.Unauthorized, "invalid or expired token", err))
			return
		}

		id, err := identityFromClaims(claims)
		if err != nil {
			log.WithError(err).Warn("Rejected token with malformed identity")
			config.Error(w, r, err)
			return
		}

		ctx := WithIdentity(r.Context(), id)
		ctx = config.ContextWithFields(ctx, logrus.Fields{"user_id": id.UserID.String()})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects identities whose role is not listed.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := IdentityFromContext(r.Context())
			if err != nil {
				config.Error(w, r, err)
				return
			}
			for _, role := range roles {
				if id.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			config.Error(w, r, apperr.New(apperr.Forbidden, "insufficient role"))
		})
	}
}
