package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artlink/internal/api/middleware"
	"artlink/internal/domain"
)

func TestAdminLogin_MustChangePasswordBeforeUsingAPI(t *testing.T) {
	env := newTestEnv(t)
	_, oneTime, err := env.admins.Create(context.Background(), "root@example.com")
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/admins/login", map[string]any{
		"email":    "root@example.com",
		"password": oneTime,
	}, "")
	requireStatus(t, w, http.StatusOK)
	login := decode[map[string]any](t, w)
	assert.Equal(t, true, login["must_change_password"])
	firstToken := login["access_token"].(string)

	technique := map[string]any{"name": "Oil", "description": "Oil on canvas"}
	w = env.do(t, http.MethodPost, "/api/techniques", technique, firstToken)
	requireStatus(t, w, http.StatusForbidden)
	assert.Contains(t, w.Body.String(), "password change required")

	w = env.do(t, http.MethodPost, "/api/admins/password", map[string]any{
		"current_password": "wrong-password",
		"new_password":     "a-brand-new-password",
	}, firstToken)
	requireStatus(t, w, http.StatusUnauthorized)

	w = env.do(t, http.MethodPost, "/api/admins/password", map[string]any{
		"current_password": oneTime,
		"new_password":     "a-brand-new-password",
	}, firstToken)
	requireStatus(t, w, http.StatusOK)
	changed := decode[map[string]any](t, w)
	assert.Equal(t, false, changed["must_change_password"])

	w = env.do(t, http.MethodPost, "/api/techniques", technique, changed["access_token"].(string))
	requireStatus(t, w, http.StatusCreated)

	w = env.do(t, http.MethodPost, "/api/admins/login", map[string]any{
		"email":    "root@example.com",
		"password": "a-brand-new-password",
	}, "")
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, false, decode[map[string]any](t, w)["must_change_password"])
}

func TestAdminPassword_RejectsNonAdmin(t *testing.T) {
	env := newTestEnv(t)
	anna := env.registerArtist(t, "Anna", "Taylor", "anna@example.com")

	w := env.do(t, http.MethodPost, "/api/admins/password", map[string]any{
		"current_password": "secret-password",
		"new_password":     "another-password",
	}, env.token(t, anna, domain.RoleArtist))
	requireStatus(t, w, http.StatusForbidden)
}

func TestEmployerLogin_ReturnsAccountWithoutPassword(t *testing.T) {
	env := newTestEnv(t)
	env.registerEmployer(t, "Acme", "acme@example.com")

	w := env.do(t, http.MethodPost, "/api/employers/login", map[string]any{
		"email":    "acme@example.com",
		"password": "secret-password",
	}, "")
	requireStatus(t, w, http.StatusOK)
	login := decode[map[string]any](t, w)
	account, ok := login["account"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Acme", account["company_name"])
	assert.NotContains(t, account, "password_hash")

	claims, err := env.tokens.ValidateToken(login["access_token"].(string))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployer.String(), claims.Role)
}

// newThrottledAuthEngine 挂载带 Redis 限流与黑名单的认证路由。
func newThrottledAuthEngine(t *testing.T, env *testEnv, kv *fakeRedis) *gin.Engine {
	t.Helper()
	blacklist := NewTokenBlacklist(kv)
	h := NewAuthHandler(env.artists, env.employers, env.admins, env.tokens, NewLoginThrottle(kv, env.cfg.Login), blacklist)

	engine := gin.New()
	engine.Use(middleware.CorrelationIDMiddleware(), middleware.SlogLoggerMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	authenticated := middleware.AuthMiddleware(env.tokens, blacklist)
	engine.POST("/login", h.ArtistLogin)
	engine.POST("/logout", authenticated, h.Logout)
	engine.GET("/me", authenticated, func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func serve(t *testing.T, engine *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	return (&testEnv{router: engine}).do(t, method, path, body, token)
}

func TestArtistLogin_LocksAfterRepeatedFailures(t *testing.T) {
	env := newTestEnv(t)
	env.registerArtist(t, "Anna", "Taylor", "anna@example.com")
	engine := newThrottledAuthEngine(t, env, newFakeRedis())

	wrong := map[string]any{"email": "anna@example.com", "password": "wrong-password"}
	right := map[string]any{"email": "anna@example.com", "password": "secret-password"}

	requireStatus(t, serve(t, engine, http.MethodPost, "/login", wrong, ""), http.StatusUnauthorized)
	requireStatus(t, serve(t, engine, http.MethodPost, "/login", wrong, ""), http.StatusUnauthorized)

	w := serve(t, engine, http.MethodPost, "/login", right, "")
	requireStatus(t, w, http.StatusTooManyRequests)
	assert.Contains(t, w.Body.String(), "locked")
}

func TestLogout_RevokesToken(t *testing.T) {
	env := newTestEnv(t)
	anna := env.registerArtist(t, "Anna", "Taylor", "anna@example.com")
	kv := newFakeRedis()
	engine := newThrottledAuthEngine(t, env, kv)

	issued, err := env.tokens.GenerateToken(anna, "anna@example.com", domain.RoleArtist, false)
	require.NoError(t, err)

	requireStatus(t, serve(t, engine, http.MethodGet, "/me", nil, issued.AccessToken), http.StatusOK)
	requireStatus(t, serve(t, engine, http.MethodPost, "/logout", nil, issued.AccessToken), http.StatusNoContent)
	assert.True(t, kv.has(tokenBlacklistKeyPrefix+issued.JTI))
	requireStatus(t, serve(t, engine, http.MethodGet, "/me", nil, issued.AccessToken), http.StatusUnauthorized)
}

func TestLoginThrottle_RateLimitPerHour(t *testing.T) {
	kv := newFakeRedis()
	throttle := NewLoginThrottle(kv, testConfig().Login)
	throttle.now = func() time.Time { return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.Empty(t, throttle.Check(ctx, "Artist", "10.0.0.1", "Anna@Example.com"))
	}
	assert.Equal(t, "rate limit exceeded", throttle.Check(ctx, "Artist", "10.0.0.1", "anna@example.com"))

	// 其他 IP 或其他角色单独计数。
	assert.Empty(t, throttle.Check(ctx, "Artist", "10.0.0.2", "anna@example.com"))
	assert.Empty(t, throttle.Check(ctx, "Employer", "10.0.0.1", "anna@example.com"))
}

func TestLoginThrottle_ResetClearsFailures(t *testing.T) {
	kv := newFakeRedis()
	throttle := NewLoginThrottle(kv, testConfig().Login)
	ctx := context.Background()

	require.NoError(t, throttle.RecordFailure(ctx, "Artist", "anna@example.com"))
	throttle.Reset(ctx, "Artist", "anna@example.com")
	require.NoError(t, throttle.RecordFailure(ctx, "Artist", "anna@example.com"))

	assert.False(t, kv.has("lock:login:Artist:anna@example.com"))
}

func TestLoginThrottle_NilIsDisabled(t *testing.T) {
	var throttle *LoginThrottle
	ctx := context.Background()

	assert.Empty(t, throttle.Check(ctx, "Artist", "10.0.0.1", "anna@example.com"))
	assert.NoError(t, throttle.RecordFailure(ctx, "Artist", "anna@example.com"))
	throttle.Reset(ctx, "Artist", "anna@example.com")
}

func TestTokenBlacklist(t *testing.T) {
	kv := newFakeRedis()
	blacklist := NewTokenBlacklist(kv)
	ctx := context.Background()
	jti := uuid.NewString()

	revoked, err := blacklist.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, jti, time.Now().Add(time.Hour)))
	revoked, err = blacklist.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	var disabled *TokenBlacklist
	revoked, err = disabled.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Error(t, disabled.Revoke(ctx, jti, time.Now()))
}
