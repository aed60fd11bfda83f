package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs the vector cache, the refresh stream and status pub/sub.
var RedisClient *redis.Client

// RedisOptions resolves REDIS_ADDR / REDIS_URL into client options.
// REDIS_POOL_SIZE and REDIS_DIAL_TIMEOUT tune the pool shared by workers and request handlers.
func RedisOptions() (*redis.Options, error) {
	target := envOr("REDIS_ADDR", envOr("REDIS_URL", os.Getenv("REDIS_URI")))
	if target == "" {
		return nil, errors.New("REDIS_ADDR (or REDIS_URL/REDIS_URI) environment variable is not set")
	}

	var opt *redis.Options
	if strings.HasPrefix(target, "redis://") || strings.HasPrefix(target, "rediss://") {
		parsed, err := redis.ParseURL(target)
		if err != nil {
			return nil, fmt.Errorf("REDIS_URL: %w", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{
			Addr:     target,
			Password: os.Getenv("REDIS_PASSWORD"),
		}
	}

	size, err := envInt("REDIS_POOL_SIZE", 0)
	if err != nil {
		return nil, err
	}
	if size > 0 {
		opt.PoolSize = size
	}
	dial, err := envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	opt.DialTimeout = dial
	return opt, nil
}

func InitRedis() error {
	opt, err := RedisOptions()
	if err != nil {
		return err
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), opt.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis ping: %w", err)
	}

	RedisClient = client
	return nil
}
