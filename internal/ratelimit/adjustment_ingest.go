package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/shopkit/tradepost/internal/config"
)

const (
	keyAdjustmentOrg  = "inventory:adjust:org:%s"
	keyAdjustmentLock = "inventory:adjust:lock:%s:%s:%s"
)

// AdjustmentLimiter guards the adjustment ingest path: an org-level token
// bucket plus a short lock per (org, product, location) so concurrent applies
// against the same summary row serialize. A nil limiter allows everything.
type AdjustmentLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker

	orgRate  float64
	orgBurst int
	lockTTL  time.Duration
}

func NewAdjustmentLimiter(cfg config.Config) (*AdjustmentLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.AdjustmentOrgRate <= 0 || limitCfg.AdjustmentOrgBurst <= 0 {
		return nil, errors.New("adjustment org rate limit must be positive")
	}
	if limitCfg.AdjustmentLockSeconds <= 0 {
		return nil, errors.New("adjustment lock ttl must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &AdjustmentLimiter{
		enabled:  true,
		bucket:   NewTokenBucket(client),
		locker:   NewLocker(client),
		orgRate:  limitCfg.AdjustmentOrgRate,
		orgBurst: limitCfg.AdjustmentOrgBurst,
		lockTTL:  time.Duration(limitCfg.AdjustmentLockSeconds) * time.Second,
	}, nil
}

func (l *AdjustmentLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *AdjustmentLimiter) AllowOrg(ctx context.Context, orgID string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyAdjustmentOrg, strings.TrimSpace(orgID)), l.orgRate, l.orgBurst)
}

func (l *AdjustmentLimiter) TryLockSummary(ctx context.Context, orgID, productID, locationID string) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	key := fmt.Sprintf(
		keyAdjustmentLock,
		strings.TrimSpace(orgID),
		strings.TrimSpace(productID),
		strings.TrimSpace(locationID),
	)
	return l.locker.TryLock(ctx, key, l.lockTTL)
}

func (l *AdjustmentLimiter) ReleaseSummary(ctx context.Context, orgID, productID, locationID, token string) error {
	if !l.Enabled() {
		return nil
	}
	key := fmt.Sprintf(
		keyAdjustmentLock,
		strings.TrimSpace(orgID),
		strings.TrimSpace(productID),
		strings.TrimSpace(locationID),
	)
	return l.locker.Release(ctx, key, token)
}
