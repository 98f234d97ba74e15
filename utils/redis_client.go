package utils

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/perguntaquedoi/api/config"
)

var redisClient *redis.Client

// InitRedis creates the shared Redis client during boot. A failed ping is
// logged but not fatal; every cache path degrades to the database.
func InitRedis(cfg config.AppConfig) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil && Sugar != nil {
		Sugar.Warnf("redis unavailable, caching disabled: %v", err)
	}
}

// GetRedis returns the shared Redis client, or nil when InitRedis was never
// called (tests, cache-less deployments).
func GetRedis() *redis.Client {
	return redisClient
}
