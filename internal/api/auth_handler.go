package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artlink/internal/api/middleware"
	"artlink/internal/auth"
	"artlink/internal/domain"
	"artlink/internal/metrics"
	"artlink/internal/service"
)

// AuthHandler 处理三类账号的登录、管理员改密与退出。
type AuthHandler struct {
	artists   *service.ArtistService
	employers *service.EmployerService
	admins    *service.AdminService
	tokens    *auth.TokenService
	throttle  *LoginThrottle
	blacklist *TokenBlacklist
}

// NewAuthHandler 构造认证处理器。throttle 与 blacklist 可以为 nil。
func NewAuthHandler(
	artists *service.ArtistService,
	employers *service.EmployerService,
	admins *service.AdminService,
	tokens *auth.TokenService,
	throttle *LoginThrottle,
	blacklist *TokenBlacklist,
) *AuthHandler {
	return &AuthHandler{
		artists:   artists,
		employers: employers,
		admins:    admins,
		tokens:    tokens,
		throttle:  throttle,
		blacklist: blacklist,
	}
}

type tokenResponse struct {
	AccessToken        string `json:"access_token"`
	TokenType          string `json:"token_type"`
	ExpiresIn          int    `json:"expires_in"`
	MustChangePassword bool   `json:"must_change_password"`
	Account            any    `json:"account"`
}

// loginResult 是各类账号登录成功后签发令牌所需的信息。
type loginResult struct {
	id                 uuid.UUID
	email              string
	mustChangePassword bool
	account            any
}

type authenticateFunc func(ctx context.Context, email, password string) (loginResult, error)

func (h *AuthHandler) ArtistLogin(c *gin.Context) {
	h.login(c, domain.RoleArtist, func(ctx context.Context, email, password string) (loginResult, error) {
		a, err := h.artists.Login(ctx, email, password)
		if err != nil {
			return loginResult{}, err
		}
		return loginResult{id: a.ID, email: a.Email, account: newArtistResponse(*a)}, nil
	})
}

func (h *AuthHandler) EmployerLogin(c *gin.Context) {
	h.login(c, domain.RoleEmployer, func(ctx context.Context, email, password string) (loginResult, error) {
		e, err := h.employers.Login(ctx, email, password)
		if err != nil {
			return loginResult{}, err
		}
		return loginResult{id: e.ID, email: e.Email, account: newEmployerResponse(*e)}, nil
	})
}

func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, domain.RoleAdmin, func(ctx context.Context, email, password string) (loginResult, error) {
		a, err := h.admins.Login(ctx, email, password)
		if err != nil {
			return loginResult{}, err
		}
		return loginResult{
			id:                 a.ID,
			email:              a.Email,
			mustChangePassword: a.MustChangePassword,
			account:            adminResponse{ID: a.ID, Email: a.Email, MustChangePassword: a.MustChangePassword},
		}, nil
	})
}

// login 校验口令并返回 Token，限流与锁定按角色分别计数。
func (h *AuthHandler) login(c *gin.Context, role domain.Role, authenticate authenticateFunc) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	scope := role.String()
	logger := middleware.LoggerFromContext(c).With(
		slog.String("email", req.Email),
		slog.String("role", scope),
	)

	if msg := h.throttle.Check(ctx, scope, c.ClientIP(), req.Email); msg != "" {
		logger.Info("login throttled", slog.String("reason", msg))
		metrics.ObserveLogin(scope, metrics.OutcomeThrottled)
		TooManyRequests(c, msg)
		return
	}

	result, err := authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logger.Info("login failed: invalid credentials")
			metrics.ObserveLogin(scope, metrics.OutcomeRejected)
			if err := h.throttle.RecordFailure(ctx, scope, req.Email); err != nil {
				logger.Warn("record login failure failed", slog.Any("error", err))
			}
			Unauthorized(c)
			return
		}
		metrics.ObserveLogin(scope, metrics.OutcomeError)
		respondError(c, err)
		return
	}

	metrics.ObserveLogin(scope, metrics.OutcomeSuccess)
	h.throttle.Reset(ctx, scope, req.Email)
	h.replyWithToken(c, result, role)
}

// ChangeAdminPassword 校验当前密码并更新为新密码，同时清除强制改密标记。
func (h *AuthHandler) ChangeAdminPassword(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.NewPassword == req.CurrentPassword {
		BadRequest(c, "new password must be different from current password")
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	admin, err := h.admins.ChangePassword(ctx, caller.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			Unauthorized(c)
			return
		}
		respondError(c, err)
		return
	}

	// 旧令牌仍带有 must_change_password，注销后换发新令牌。
	if jti, expiresAt, ok := middleware.TokenFromContext(c); ok && h.blacklist != nil {
		if err := h.blacklist.Revoke(ctx, jti, expiresAt); err != nil {
			logger.Warn("revoke previous admin token failed", slog.Any("error", err))
		}
	}

	h.replyWithToken(c, loginResult{
		id:      admin.ID,
		email:   admin.Email,
		account: adminResponse{ID: admin.ID, Email: admin.Email},
	}, domain.RoleAdmin)
}

// Logout 将当前访问令牌加入黑名单。
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, expiresAt, ok := middleware.TokenFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	if h.blacklist == nil {
		middleware.LoggerFromContext(c).Warn("logout without token blacklist, token stays valid until expiry")
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.blacklist.Revoke(c.Request.Context(), jti, expiresAt); err != nil {
		middleware.LoggerFromContext(c).Error("logout revoke token failed", slog.Any("error", err))
		Internal(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) replyWithToken(c *gin.Context, result loginResult, role domain.Role) {
	token, err := h.tokens.GenerateToken(result.id, result.email, role, result.mustChangePassword)
	if err != nil {
		middleware.LoggerFromContext(c).Error("generate token failed", slog.Any("error", err))
		Internal(c)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:        token.AccessToken,
		TokenType:          "Bearer",
		ExpiresIn:          int(h.tokens.TTL().Seconds()),
		MustChangePassword: result.mustChangePassword,
		Account:            result.account,
	})
}
