package config

import (
	"github.com/spf13/viper"
)

// RedisConfiguration holds the optional Redis connection settings.
// Redis backs the inbound rate limiter when configured, nothing else.
type RedisConfiguration struct {
	URI      string
	Password string
	DB       int
}

// RedisConfig returns the Redis configuration
func RedisConfig() *RedisConfiguration {
	return &RedisConfiguration{
		URI:      viper.GetString("REDIS_URI"),
		Password: viper.GetString("REDIS_PASSWORD"),
		DB:       viper.GetInt("REDIS_DB"),
	}
}
