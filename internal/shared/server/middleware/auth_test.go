package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groundwater-backend/internal/shared/auth"
	"groundwater-backend/internal/shared/telemetry"
)

type identity struct {
	UserID   string
	Username string
	Role     auth.Role
	Guest    bool
}

func identityRouter(t *testing.T, public ...string) (*gin.Engine, *identity) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	restore := telemetry.SetOutput(io.Discard)
	t.Cleanup(restore)

	seen := &identity{}
	router := gin.New()
	router.Use(Auth(public...))
	handler := func(c *gin.Context) {
		*seen = identity{
			UserID:   UserIDFromContext(c),
			Username: UsernameFromContext(c),
			Role:     RoleFromContext(c),
			Guest:    IsGuest(c),
		}
		c.Status(http.StatusOK)
	}
	router.GET("/api/v1/private", handler)
	router.GET("/api/v1/health", handler)
	router.GET("/api/v1/admin", RequireRole(auth.RoleAdmin), handler)
	return router, seen
}

func signedToken(t *testing.T, role auth.Role) string {
	t.Helper()
	t.Setenv("ENV", "dev")
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	token, err := auth.SignJWT(auth.Claims{Sub: "user-1", Username: "analyst", Name: "Analyst", Role: role})
	require.NoError(t, err)
	return token
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router, _ := identityRouter(t)
	router.OPTIONS("/api/v1/chat", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/chat", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthBearerToken(t *testing.T) {
	router, seen := identityRouter(t)
	token := signedToken(t, auth.RoleAnalyst)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, identity{UserID: "user-1", Username: "analyst", Role: auth.RoleAnalyst}, *seen)
}

func TestAuthGuestHeader(t *testing.T) {
	router, seen := identityRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/private", nil)
	req.Header.Set("X-Guest-Id", "g-42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, identity{UserID: "guest:g-42", Role: auth.RoleGuest, Guest: true}, *seen)
}

func TestAuthRejectsMissingOrBadIdentity(t *testing.T) {
	router, _ := identityRouter(t)
	signedToken(t, auth.RoleUser)

	tests := []struct {
		name   string
		header string
	}{
		{"none", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}

func TestAuthPublicPrefix(t *testing.T) {
	router, seen := identityRouter(t, "/api/v1/health")

	resp := serve(router, http.MethodGet, "/api/v1/health")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, identity{}, *seen)

	token := signedToken(t, auth.RoleUser)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, auth.RoleUser, seen.Role)

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/private").Code)
}

func TestRequireRole(t *testing.T) {
	router, _ := identityRouter(t)

	guest := httptest.NewRequest(http.MethodGet, "/api/v1/admin", nil)
	guest.Header.Set("X-Guest-Id", "g-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, guest)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/admin", nil)
	admin.Header.Set("Authorization", "Bearer "+signedToken(t, auth.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer  abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
	_, ok = BearerToken("abc")
	assert.False(t, ok)
}
