package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artlink/internal/access"
	"artlink/internal/api/middleware"
)

// parseIDParam 解析路径中的 UUID 参数，失败时直接写 400。
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// requireCaller 返回当前调用者；未经过 AuthMiddleware 时写 401。
func requireCaller(c *gin.Context) (access.Caller, bool) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return access.Caller{}, false
	}
	return caller, true
}

// requireOwnership 要求调用者拥有 ownerIDs 中的任意一个，或为管理员。
func requireOwnership(c *gin.Context, caller access.Caller, ownerIDs ...uuid.UUID) bool {
	if res := access.CanMutateAny(caller, ownerIDs...); !res.Allowed {
		middleware.LoggerFromContext(c).Info("ownership check denied", "reason", res.Reason)
		Forbidden(c, "forbidden")
		return false
	}
	return true
}

// bindJSON 绑定并校验请求体，失败时写 400。
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}
