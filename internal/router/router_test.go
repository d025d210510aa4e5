package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/auth"
	"github.com/saulo-duarte/learnpath/internal/certlevel"
	"github.com/saulo-duarte/learnpath/internal/router"
	"github.com/saulo-duarte/learnpath/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noCredits struct{}

func (noCredits) Balance(context.Context, uuid.UUID) (int, error) { return 0, nil }

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	os.Setenv("JWT_SECRET", "router-test-secret-with-enough-length")
	auth.Init()

	return router.New(router.RouterConfig{
		CorsOrigins:  []string{"*"},
		UserHandler:  user.NewHandler(noCredits{}),
		LevelHandler: certlevel.NewHandler(nil),
	})
}

func bearer(t *testing.T, role auth.Role) string {
	t.Helper()
	token, err := auth.GenerateJWT(uuid.NewString(), string(role), nil, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter(t *testing.T) {
	r := newRouter(t)

	t.Run("HealthIsPublic", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ProtectedWithoutToken", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ProtectedWithToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", bearer(t, auth.RoleStudent))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("AdminRoutesRequireAdmin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/admin/certification-levels/"+uuid.NewString(), nil)
		req.Header.Set("Authorization", bearer(t, auth.RoleStudent))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
