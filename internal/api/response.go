package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"artlink/internal/api/middleware"
	"artlink/internal/auth"
	"artlink/internal/domain"
	"artlink/internal/service"
)

const internalErrorMessage = "internal error"

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func Unauthorized(c *gin.Context)                { Error(c, http.StatusUnauthorized, "unauthorized") }
func BadRequest(c *gin.Context, msg string)      { Error(c, http.StatusBadRequest, msg) }
func Forbidden(c *gin.Context, msg string)       { Error(c, http.StatusForbidden, msg) }
func NotFound(c *gin.Context, msg string)        { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)        { Error(c, http.StatusConflict, msg) }
func TooManyRequests(c *gin.Context, msg string) { Error(c, http.StatusTooManyRequests, msg) }

// Internal 只返回通用错误信息，细节写入日志。
func Internal(c *gin.Context) { Error(c, http.StatusInternalServerError, internalErrorMessage) }

// respondError 把 service 层错误映射为 HTTP 状态码。
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, "not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrEmailTaken):
		Conflict(c, "email already registered")
	case errors.Is(err, service.ErrInvalidReference):
		BadRequest(c, err.Error())
	case errors.Is(err, auth.ErrPasswordTooShort):
		BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrIllegalTransition):
		Conflict(c, err.Error())
	case errors.Is(err, domain.ErrTransitionNotPermitted):
		Forbidden(c, err.Error())
	case errors.Is(err, service.ErrPartyChangeNotPermitted):
		Forbidden(c, err.Error())
	default:
		middleware.LoggerFromContext(c).Error("request failed", slog.Any("error", err))
		Internal(c)
	}
}
