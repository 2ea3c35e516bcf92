// Package cache keeps short-lived copies of tenant dashboard aggregates in
// redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hsshealth/hss/internal/auth/domain"
)

const keyPrefix = "hss:stats:"

// ErrMiss is returned by Get when nothing is cached for the tenant.
var ErrMiss = errors.New("cache: miss")

// StatsCache caches domain.DashboardStats per tenant.
type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl}
}

// Connect parses a redis:// URL and returns a client.
func Connect(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func Key(tenant string) string { return keyPrefix + tenant }

func (c *StatsCache) Get(ctx context.Context, tenant string) (domain.DashboardStats, error) {
	data, err := c.rdb.Get(ctx, Key(tenant)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.DashboardStats{}, ErrMiss
	}
	if err != nil {
		return domain.DashboardStats{}, err
	}

	var stats domain.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("decode cached stats: %w", err)
	}
	return stats, nil
}

func (c *StatsCache) Set(ctx context.Context, tenant string, stats domain.DashboardStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, Key(tenant), data, c.ttl).Err()
}

// Invalidate drops the cached stats of tenant.
func (c *StatsCache) Invalidate(ctx context.Context, tenant string) error {
	return c.rdb.Del(ctx, Key(tenant)).Err()
}

func (c *StatsCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *StatsCache) Close() error {
	return c.rdb.Close()
}
