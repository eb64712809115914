package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artlink/internal/access"
	"artlink/internal/auth"
	"artlink/internal/domain"
)

const (
	callerKey             = "caller"
	mustChangePasswordKey = "mustChangePassword"
	tokenIDKey            = "tokenID"
	tokenExpiresAtKey     = "tokenExpiresAt"
)

// RevocationChecker 查询令牌（jti）是否已被注销。
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// AuthMiddleware 校验访问令牌并将调用者身份注入上下文。
// revoked 可以为 nil；查询失败时放行并记录告警。
func AuthMiddleware(tokens *auth.TokenService, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		claims, err := tokens.ValidateToken(rawToken)
		if err != nil {
			LoggerFromContext(c).Info("access token rejected", slog.Any("error", err))
			abortUnauthorized(c)
			return
		}

		if revoked != nil && claims.ID != "" {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				LoggerFromContext(c).Warn("token revocation lookup failed", slog.Any("error", err))
			} else if isRevoked {
				abortUnauthorized(c)
				return
			}
		}

		caller, err := CallerFromClaims(claims)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(callerKey, caller)
		c.Set(mustChangePasswordKey, claims.MustChangePassword)
		c.Set(tokenIDKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(tokenExpiresAtKey, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// CallerFromClaims 把已校验的 claims 转换为 access.Caller。
func CallerFromClaims(claims *auth.TokenClaims) (access.Caller, error) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return access.Caller{}, err
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return access.Caller{}, err
	}
	return access.Caller{ID: id, Email: claims.Email, Role: role}, nil
}

// CallerFromContext 返回 AuthMiddleware 注入的调用者。
func CallerFromContext(c *gin.Context) (access.Caller, bool) {
	value, ok := c.Get(callerKey)
	if !ok {
		return access.Caller{}, false
	}
	caller, ok := value.(access.Caller)
	return caller, ok
}

// TokenFromContext returns the jti and expiry of the token that authenticated the request.
func TokenFromContext(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString(tokenIDKey)
	expiresAt := c.GetTime(tokenExpiresAtKey)
	return jti, expiresAt, jti != ""
}
