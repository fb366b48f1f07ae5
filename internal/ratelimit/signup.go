package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/spacemate/spacemate/internal/config"
)

const keySignupIP = "signup:ip:%s"

// SignupLimiter throttles the public signup endpoints per client IP. A nil
// limiter (rate limiting disabled) allows everything.
type SignupLimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewSignupLimiter(cfg config.Config) (*SignupLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.SignupRate <= 0 || limitCfg.SignupBurst <= 0 {
		return nil, errors.New("signup rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &SignupLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.SignupRate,
		burst:   limitCfg.SignupBurst,
	}, nil
}

func (l *SignupLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *SignupLimiter) Allow(ctx context.Context, clientIP string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keySignupIP, strings.TrimSpace(clientIP)), l.rate, l.burst)
}
