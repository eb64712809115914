package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"artlink/internal/config"
	"artlink/internal/domain"
)

// TokenService 负责签发与校验 HS256 访问令牌。
type TokenService struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// TokenClaims 表示 JWT 中的业务字段，便于中间件读取调用者信息。
type TokenClaims struct {
	Email              string `json:"email"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"must_change_password,omitempty"`
	jwt.RegisteredClaims
}

// IssuedToken 是登录响应需要的全部令牌信息。
type IssuedToken struct {
	AccessToken string
	ExpiresAt   time.Time
	JTI         string
}

// NewTokenService 校验配置并构造服务实例。
func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	if len(cfg.SigningKey) < 32 {
		return nil, errors.New("jwt signing key must be at least 32 bytes")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("jwt ttl must be positive")
	}
	return &TokenService{
		key:      []byte(cfg.SigningKey),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      time.Now,
	}, nil
}

// GenerateToken 创建访问令牌。mustChangePassword 只对管理员有意义。
func (s *TokenService) GenerateToken(id uuid.UUID, email string, role domain.Role, mustChangePassword bool) (IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	jti := uuid.NewString()

	claims := TokenClaims{
		Email:              email,
		Role:               role.String(),
		MustChangePassword: mustChangePassword,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ID:        jti,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}
	return IssuedToken{AccessToken: signed, ExpiresAt: expiresAt, JTI: jti}, nil
}

// ValidateToken 解析并验证 JWT：算法、签名、签发者、受众与过期时间。
func (s *TokenService) ValidateToken(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.key, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}
	if _, err := domain.ParseRole(claims.Role); err != nil {
		return nil, err
	}
	return claims, nil
}

// TTL 暴露访问令牌有效期。
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
