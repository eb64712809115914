package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"artlink/internal/domain"
)

// RequireRoles 只放行角色在 roles 中的调用者，必须挂在 AuthMiddleware 之后。
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		caller, ok := CallerFromContext(c)
		if !ok {
			abortUnauthorized(c)
			return
		}
		if _, ok := allowed[caller.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
