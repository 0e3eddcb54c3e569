package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sportschat/ingestion/internal/metrics"
	"sportschat/ingestion/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisCache caches box score payloads for concluded games so repeat
// cycles do not refetch data that can no longer change. The cache is
// strictly optional: a nil *RedisCache is a valid no-op cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Config holds Redis connection configuration.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg Config, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func boxScoreKey(gameURL string) string {
	return "boxscore:" + gameURL
}

// GetBoxScore returns a cached box score for the game URL, if present.
func (c *RedisCache) GetBoxScore(ctx context.Context, gameURL string) (*models.BoxScoreResponse, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, boxScoreKey(gameURL)).Bytes()
	if err == redis.Nil {
		metrics.RecordCacheMiss()
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("game_url", gameURL).Msg("Box score cache read failed")
		metrics.RecordCacheMiss()
		return nil, false
	}

	var boxScore models.BoxScoreResponse
	if err := json.Unmarshal(data, &boxScore); err != nil {
		log.Warn().Err(err).Str("game_url", gameURL).Msg("Box score cache entry corrupt")
		metrics.RecordCacheMiss()
		return nil, false
	}

	metrics.RecordCacheHit()
	return &boxScore, true
}

// SetBoxScore stores a box score for the game URL. Failures are logged
// and swallowed; caching is best effort.
func (c *RedisCache) SetBoxScore(ctx context.Context, gameURL string, boxScore *models.BoxScoreResponse) {
	if c == nil {
		return
	}

	data, err := json.Marshal(boxScore)
	if err != nil {
		log.Warn().Err(err).Str("game_url", gameURL).Msg("Failed to marshal box score for cache")
		return
	}

	if err := c.client.Set(ctx, boxScoreKey(gameURL), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("game_url", gameURL).Msg("Box score cache write failed")
	}
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
