package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artlink/internal/config"
	"artlink/internal/domain"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SigningKey: "0123456789abcdef0123456789abcdef",
		Issuer:     "artlink",
		Audience:   "artlink-web",
		TTL:        time.Hour,
	}
}

func TestGenerateThenValidateRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testJWTConfig())
	require.NoError(t, err)

	id := uuid.New()
	issued, err := svc.GenerateToken(id, "anna@example.com", domain.RoleArtist, false)
	require.NoError(t, err)
	require.NotEmpty(t, issued.JTI)

	claims, err := svc.ValidateToken(issued.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.Subject)
	assert.Equal(t, "anna@example.com", claims.Email)
	assert.Equal(t, "Artist", claims.Role)
	assert.Equal(t, issued.JTI, claims.ID)
	assert.False(t, claims.MustChangePassword)
}

func TestValidateRejectsForeignKey(t *testing.T) {
	svc, err := NewTokenService(testJWTConfig())
	require.NoError(t, err)

	other := testJWTConfig()
	other.SigningKey = "ffffffffffffffffffffffffffffffff"
	foreign, err := NewTokenService(other)
	require.NoError(t, err)

	issued, err := foreign.GenerateToken(uuid.New(), "x@example.com", domain.RoleEmployer, false)
	require.NoError(t, err)

	_, err = svc.ValidateToken(issued.AccessToken)
	require.Error(t, err)
}

func TestValidateRejectsWrongAudience(t *testing.T) {
	svc, err := NewTokenService(testJWTConfig())
	require.NoError(t, err)

	other := testJWTConfig()
	other.Audience = "mobile"
	foreign, err := NewTokenService(other)
	require.NoError(t, err)

	issued, err := foreign.GenerateToken(uuid.New(), "x@example.com", domain.RoleEmployer, false)
	require.NoError(t, err)
	_, err = svc.ValidateToken(issued.AccessToken)
	require.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc, err := NewTokenService(testJWTConfig())
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	issued, err := svc.GenerateToken(uuid.New(), "x@example.com", domain.RoleAdmin, true)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(issued.AccessToken)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	svc, err := NewTokenService(testJWTConfig())
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, TokenClaims{Role: "Admin"})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(raw)
	require.Error(t, err)
}

func TestNewTokenServiceRejectsShortKey(t *testing.T) {
	cfg := testJWTConfig()
	cfg.SigningKey = "short"
	_, err := NewTokenService(cfg)
	require.Error(t, err)
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong horse", hash))

	_, err = HashPassword("short")
	require.ErrorIs(t, err, ErrPasswordTooShort)

	pw, err := GenerateRandomPassword(24)
	require.NoError(t, err)
	assert.Len(t, pw, 32)
}
