package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prateushsharma/sei-Firewall/config"
	"github.com/prateushsharma/sei-Firewall/utils"
	"github.com/prateushsharma/sei-Firewall/utils/logger"
)

// RedisClient is nil when Redis is not configured; the rate limiter
// falls back to its in-memory store
var RedisClient *redis.Client

// InitializeRedis sets up the Redis connection when a URI is configured
func InitializeRedis() error {
	conf := config.RedisConfig()
	if conf.URI == "" {
		logger.Infof("Redis not configured, using in-memory rate limiting")
		return nil
	}

	opts, err := redis.ParseURL(conf.URI)
	if err != nil {
		return err
	}
	if conf.Password != "" {
		opts.Password = conf.Password
	}
	if conf.DB != 0 {
		opts.DB = conf.DB
	}

	client := redis.NewClient(opts)
	err = utils.Retry(3, 2*time.Second, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return client.Ping(ctx).Err()
	})
	if err != nil {
		return err
	}

	RedisClient = client
	logger.Infof("Redis connection established")
	return nil
}
