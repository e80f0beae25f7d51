package db

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

const summaryKeyPrefix = "marketmood:summary:"

func ConnectRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		slog.Warn("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(Ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

// CacheTTL reads the summary cache lifetime from CACHE_TTL_MINUTES,
// defaulting to 15 minutes.
func CacheTTL() time.Duration {
	if v := os.Getenv("CACHE_TTL_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return 15 * time.Minute
}

// CacheSummary stores the serialized analysis payload for a keyword so
// repeated dashboard loads skip the live fetch.
func CacheSummary(keyword string, payload []byte, ttl time.Duration) error {
	return Redis.Set(Ctx, summaryKeyPrefix+keyword, payload, ttl).Err()
}

// GetCachedSummary returns the cached payload for a keyword, or nil on a
// cache miss.
func GetCachedSummary(keyword string) ([]byte, error) {
	data, err := Redis.Get(Ctx, summaryKeyPrefix+keyword).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SummaryCache adapts the redis helpers to the handler's cache interface.
type SummaryCache struct {
	TTL time.Duration
}

func (s SummaryCache) Get(keyword string) ([]byte, error) {
	return GetCachedSummary(keyword)
}

func (s SummaryCache) Set(keyword string, payload []byte) error {
	return CacheSummary(keyword, payload, s.TTL)
}
