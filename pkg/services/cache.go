package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"foodbox_backend/pkg/config"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

const (
	// Cached feed page: feed:{search}:{restaurant}:{page}:{limit} -> JSON payload
	keyFeedPage = "feed:%s:%s:%d:%d"
)

var ttlFeedCache = 5 * time.Minute

// InitRedis connects the feed cache. Optional: with no REDIS_ADDR the cache
// is simply disabled and every feed read hits the database.
func InitRedis() error {
	if config.AppConfig.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, feed cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: config.AppConfig.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	redisClient = client
	return nil
}

// CloseRedis closes the cache connection
func CloseRedis() {
	if redisClient == nil {
		return
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing redis: %v", err)
	}
}

// GetCachedFeedPage returns the cached JSON for a feed page, or "" on miss
func GetCachedFeedPage(ctx context.Context, search, restaurant string, page, limit int) string {
	if redisClient == nil {
		return ""
	}
	key := fmt.Sprintf(keyFeedPage, search, restaurant, page, limit)
	val, err := redisClient.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// CacheFeedPage stores a rendered feed page for the cache TTL
func CacheFeedPage(ctx context.Context, search, restaurant string, page, limit int, payload string) {
	if redisClient == nil {
		return
	}
	key := fmt.Sprintf(keyFeedPage, search, restaurant, page, limit)
	if err := redisClient.Set(ctx, key, payload, ttlFeedCache).Err(); err != nil {
		log.Printf("Cache: failed to store %s: %v", key, err)
	}
}

// InvalidateFeedCache drops every cached feed page. Called after any box
// mutation so stale stock never outlives a write by more than one request.
func InvalidateFeedCache(ctx context.Context) {
	if redisClient == nil {
		return
	}
	iter := redisClient.Scan(ctx, 0, "feed:*", 0).Iterator()
	for iter.Next(ctx) {
		redisClient.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("Cache: feed invalidation scan failed: %v", err)
	}
}
