package service

import (
	"codehabit_backend/internal/util"
	"codehabit_backend/pkg/logger"
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	overviewKeyPrefix  = "stats:overview:"
	overviewVersionKey = "stats:version:overview"
)

// StatsCache keeps computed overviews in Redis for a short time. A nil cache, or one
// without a client, never hits and never stores.
//
// Entries are keyed by a version that every write bumps, so an overview computed
// before a write is stored under a key nobody reads any more.
type StatsCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{Redis: rdb, TTL: ttl}
}

func (c *StatsCache) enabled() bool {
	return c != nil && c.Redis != nil
}

func overviewKey(version int64, today time.Time) string {
	return overviewKeyPrefix + strconv.FormatInt(version, 10) + ":" + util.FormatDate(today)
}

func (c *StatsCache) version(ctx context.Context) (int64, error) {
	v, err := c.Redis.Get(ctx, overviewVersionKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

// GetOverview returns the cached overview for today, if any, and the cache version
// a freshly computed overview must be stored under. A negative version means the
// result must not be stored.
func (c *StatsCache) GetOverview(ctx context.Context, today time.Time) (*Overview, int64, bool) {
	if !c.enabled() {
		return nil, -1, false
	}
	version, err := c.version(ctx)
	if err != nil {
		logger.Log.Warn("Stats cache version read failed", zap.Error(err))
		return nil, -1, false
	}
	val, err := c.Redis.Get(ctx, overviewKey(version, today)).Result()
	if err == redis.Nil {
		return nil, version, false
	}
	if err != nil {
		logger.Log.Warn("Stats cache read failed", zap.Error(err))
		return nil, version, false
	}

	var overview Overview
	if err := json.Unmarshal([]byte(val), &overview); err != nil {
		logger.Log.Warn("Stats cache entry unreadable", zap.Error(err))
		return nil, version, false
	}
	return &overview, version, true
}

// SetOverview stores overview under version, as returned by GetOverview before the
// overview was computed.
func (c *StatsCache) SetOverview(ctx context.Context, today time.Time, version int64, overview *Overview) {
	if !c.enabled() || version < 0 {
		return
	}
	data, err := json.Marshal(overview)
	if err != nil {
		return
	}
	if err := c.Redis.Set(ctx, overviewKey(version, today), data, c.TTL).Err(); err != nil {
		logger.Log.Warn("Stats cache write failed", zap.Error(err))
	}
}

// Invalidate retires every cached overview and drops the stored entries. Called after any habit or completion write.
func (c *StatsCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.Redis.Incr(ctx, overviewVersionKey).Err(); err != nil {
		logger.Log.Warn("Stats cache version bump failed", zap.Error(err))
	}
	iter := c.Redis.Scan(ctx, 0, overviewKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("Stats cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.Redis.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("Stats cache invalidation failed", zap.Error(err))
	}
}
