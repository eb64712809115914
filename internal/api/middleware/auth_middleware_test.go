package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artlink/internal/auth"
	"artlink/internal/config"
	"artlink/internal/domain"
)

type stubRevocation struct {
	revoked map[string]bool
	err     error
}

func (s stubRevocation) IsRevoked(_ context.Context, jti string) (bool, error) {
	return s.revoked[jti], s.err
}

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(config.JWTConfig{
		SigningKey: "middleware-test-signing-key-32-bytes!",
		Issuer:     "artlink",
		Audience:   "artlink-web",
		TTL:        time.Hour,
	})
	require.NoError(t, err)
	return tokens
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		caller, _ := CallerFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": caller.ID.String(), "role": caller.Role.String()})
	})
	engine.GET("/", handlers...)
	return engine
}

func get(engine *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer a b", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestAuthMiddleware(t *testing.T) {
	tokens := newTokens(t)
	id := uuid.New()
	issued, err := tokens.GenerateToken(id, "anna@example.com", domain.RoleArtist, false)
	require.NoError(t, err)

	t.Run("valid token sets caller", func(t *testing.T) {
		w := get(newEngine(AuthMiddleware(tokens, nil)), issued.AccessToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), id.String())
		assert.Contains(t, w.Body.String(), `"role":"Artist"`)
	})

	t.Run("missing and malformed tokens", func(t *testing.T) {
		engine := newEngine(AuthMiddleware(tokens, nil))
		assert.Equal(t, http.StatusUnauthorized, get(engine, "").Code)
		assert.Equal(t, http.StatusUnauthorized, get(engine, "not-a-jwt").Code)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other, err := auth.NewTokenService(config.JWTConfig{SigningKey: "a-completely-different-signing-key!!", TTL: time.Hour})
		require.NoError(t, err)
		forged, err := other.GenerateToken(id, "anna@example.com", domain.RoleAdmin, false)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(newEngine(AuthMiddleware(tokens, nil)), forged.AccessToken).Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		checker := stubRevocation{revoked: map[string]bool{issued.JTI: true}}
		assert.Equal(t, http.StatusUnauthorized, get(newEngine(AuthMiddleware(tokens, checker)), issued.AccessToken).Code)
	})

	t.Run("revocation lookup failure lets the request through", func(t *testing.T) {
		checker := stubRevocation{err: errors.New("redis down")}
		assert.Equal(t, http.StatusOK, get(newEngine(AuthMiddleware(tokens, checker)), issued.AccessToken).Code)
	})
}

func TestRequireRoles(t *testing.T) {
	tokens := newTokens(t)
	employer, err := tokens.GenerateToken(uuid.New(), "acme@example.com", domain.RoleEmployer, false)
	require.NoError(t, err)
	admin, err := tokens.GenerateToken(uuid.New(), "root@example.com", domain.RoleAdmin, false)
	require.NoError(t, err)

	engine := newEngine(AuthMiddleware(tokens, nil), RequireRoles(domain.RoleArtist, domain.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, get(engine, employer.AccessToken).Code)
	assert.Equal(t, http.StatusOK, get(engine, admin.AccessToken).Code)

	// 未经过 AuthMiddleware 时没有调用者。
	assert.Equal(t, http.StatusUnauthorized, get(newEngine(RequireRoles(domain.RoleAdmin)), "").Code)
}

func TestRequirePasswordChangeCompleted(t *testing.T) {
	tokens := newTokens(t)
	pending, err := tokens.GenerateToken(uuid.New(), "root@example.com", domain.RoleAdmin, true)
	require.NoError(t, err)
	done, err := tokens.GenerateToken(uuid.New(), "root@example.com", domain.RoleAdmin, false)
	require.NoError(t, err)

	engine := newEngine(AuthMiddleware(tokens, nil), RequirePasswordChangeCompletedMiddleware())

	w := get(engine, pending.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), passwordChangeRequiredMessage)
	assert.Equal(t, http.StatusOK, get(engine, done.AccessToken).Code)
}

func TestCorrelationIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CorrelationIDMiddleware())
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetCorrelationID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(correlationIDHeader, "req-123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(correlationIDHeader))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(correlationIDHeader))
}
