package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"artlink/internal/config"
)

const tokenBlacklistKeyPrefix = "auth:token:blacklist:"

// redisKV 是登录限流与令牌黑名单用到的 go-redis 命令子集，*redis.Client 满足该接口。
type redisKV interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

func incrWithTTL(ctx context.Context, client redisKV, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

// LoginThrottle 按 IP+邮箱 做小时级限流，并在连续失败后临时锁定账号。
// Redis 不可用时放行。
type LoginThrottle struct {
	redis         redisKV
	ratePerHour   int
	lockThreshold int
	lockTTL       time.Duration
	now           func() time.Time
}

func NewLoginThrottle(client redisKV, cfg config.LoginConfig) *LoginThrottle {
	return &LoginThrottle{
		redis:         client,
		ratePerHour:   cfg.RateLimitPerHour,
		lockThreshold: cfg.LockThreshold,
		lockTTL:       cfg.LockTTL,
		now:           time.Now,
	}
}

func (t *LoginThrottle) enabled() bool { return t != nil && t.redis != nil }

// Check returns a non-empty message when the attempt must be refused.
func (t *LoginThrottle) Check(ctx context.Context, scope, ip, email string) string {
	if !t.enabled() {
		return ""
	}
	account := scope + ":" + strings.ToLower(email)

	if t.ratePerHour > 0 {
		rateKey := "rate:login:" + ip + ":" + account + ":" + t.now().UTC().Format("2006010215")
		count, err := incrWithTTL(ctx, t.redis, rateKey, time.Hour)
		if err != nil {
			count = 0
		}
		if count > int64(t.ratePerHour) {
			return "rate limit exceeded"
		}
	}

	if ttl, _ := t.redis.TTL(ctx, "lock:login:"+account).Result(); ttl > 0 {
		return "account temporarily locked"
	}
	return ""
}

// RecordFailure 累计失败次数，达到阈值后写入锁定键。
func (t *LoginThrottle) RecordFailure(ctx context.Context, scope, email string) error {
	if !t.enabled() {
		return nil
	}
	account := scope + ":" + strings.ToLower(email)
	count, err := incrWithTTL(ctx, t.redis, "lock:login:fail:"+account, t.lockTTL)
	if err != nil {
		return err
	}
	if t.lockThreshold > 0 && count >= int64(t.lockThreshold) {
		return t.redis.Set(ctx, "lock:login:"+account, "1", t.lockTTL).Err()
	}
	return nil
}

// Reset 登录成功后清理失败计数。
func (t *LoginThrottle) Reset(ctx context.Context, scope, email string) {
	if !t.enabled() {
		return
	}
	_ = t.redis.Del(ctx, "lock:login:fail:"+scope+":"+strings.ToLower(email)).Err()
}

// TokenBlacklist 记录已注销的访问令牌 jti，键在令牌过期时自动失效。
type TokenBlacklist struct {
	redis redisKV
}

func NewTokenBlacklist(client redisKV) *TokenBlacklist {
	return &TokenBlacklist{redis: client}
}

func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if b == nil || b.redis == nil {
		return errors.New("token blacklist is not configured")
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return b.redis.Set(ctx, tokenBlacklistKeyPrefix+jti, "revoked", ttl).Err()
}

// IsRevoked implements middleware.RevocationChecker.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if b == nil || b.redis == nil {
		return false, nil
	}
	err := b.redis.Get(ctx, tokenBlacklistKeyPrefix+jti).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}
