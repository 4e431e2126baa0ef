package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/config"
)

const keyPreviewOrg = "preview:org:%s"

// PreviewLimiter throttles the totals-preview endpoint per
// organization. Editing UIs call preview on every keystroke, so one
// misbehaving client must not drown the rest of the tenant pool.
type PreviewLimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

// NewPreviewLimiter returns nil when rate limiting is disabled.
func NewPreviewLimiter(cfg config.Config) (*PreviewLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.PreviewRate <= 0 || limitCfg.PreviewBurst <= 0 {
		return nil, errors.New("preview rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &PreviewLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.PreviewRate,
		burst:   limitCfg.PreviewBurst,
	}, nil
}

func (l *PreviewLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *PreviewLimiter) Allow(ctx context.Context, orgID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyPreviewOrg, strings.TrimSpace(orgID)), l.rate, l.burst)
}
