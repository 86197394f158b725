package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

// SeitraceConfiguration holds the configuration for the Seitrace insights API
type SeitraceConfiguration struct {
	ApiKey  string
	BaseURL string
	ChainID string

	// Pagination
	PageLimit int
	MaxPages  int
	PageDelay time.Duration

	// Retry behavior
	MaxAttempts           int
	RetryBackoff          time.Duration
	BackoffCeiling        time.Duration
	NetworkBackoffCeiling time.Duration
	RateLimitBuffer       time.Duration
	RateLimitCeiling      time.Duration
	RateLimitCooldown     time.Duration

	Timeout time.Duration
}

var seitraceDefaultsOnce sync.Once

func initSeitraceDefaults() {
	seitraceDefaultsOnce.Do(func() {
		viper.SetDefault("SEITRACE_BASE_URL", "https://seitrace.com")
		viper.SetDefault("SEITRACE_CHAIN_ID", "pacific-1")
		viper.SetDefault("SEITRACE_PAGE_LIMIT", 50)
		viper.SetDefault("SEITRACE_MAX_PAGES", 10)
		viper.SetDefault("SEITRACE_PAGE_DELAY", 1) // seconds between page fetches
		viper.SetDefault("SEITRACE_MAX_ATTEMPTS", 3)
		viper.SetDefault("SEITRACE_RETRY_BACKOFF", 500)         // milliseconds, doubles per attempt
		viper.SetDefault("SEITRACE_BACKOFF_CEILING", 10)        // seconds, server errors
		viper.SetDefault("SEITRACE_NETWORK_BACKOFF_CEILING", 5) // seconds, connection failures
		viper.SetDefault("SEITRACE_RATE_LIMIT_BUFFER", 500)     // milliseconds past the unblock time
		viper.SetDefault("SEITRACE_RATE_LIMIT_CEILING", 120)    // seconds, longest wait honored
		viper.SetDefault("SEITRACE_RATE_LIMIT_COOLDOWN", 5)     // seconds, when no unblock time given
		viper.SetDefault("SEITRACE_TIMEOUT", 30)                // seconds
	})
}

// SeitraceConfig returns the Seitrace API configuration
func SeitraceConfig() *SeitraceConfiguration {
	initSeitraceDefaults()

	return &SeitraceConfiguration{
		ApiKey:                viper.GetString("SEITRACE_API_KEY"),
		BaseURL:               viper.GetString("SEITRACE_BASE_URL"),
		ChainID:               viper.GetString("SEITRACE_CHAIN_ID"),
		PageLimit:             viper.GetInt("SEITRACE_PAGE_LIMIT"),
		MaxPages:              viper.GetInt("SEITRACE_MAX_PAGES"),
		PageDelay:             time.Duration(viper.GetInt("SEITRACE_PAGE_DELAY")) * time.Second,
		MaxAttempts:           viper.GetInt("SEITRACE_MAX_ATTEMPTS"),
		RetryBackoff:          time.Duration(viper.GetInt("SEITRACE_RETRY_BACKOFF")) * time.Millisecond,
		BackoffCeiling:        time.Duration(viper.GetInt("SEITRACE_BACKOFF_CEILING")) * time.Second,
		NetworkBackoffCeiling: time.Duration(viper.GetInt("SEITRACE_NETWORK_BACKOFF_CEILING")) * time.Second,
		RateLimitBuffer:       time.Duration(viper.GetInt("SEITRACE_RATE_LIMIT_BUFFER")) * time.Millisecond,
		RateLimitCeiling:      time.Duration(viper.GetInt("SEITRACE_RATE_LIMIT_CEILING")) * time.Second,
		RateLimitCooldown:     time.Duration(viper.GetInt("SEITRACE_RATE_LIMIT_COOLDOWN")) * time.Second,
		Timeout:               time.Duration(viper.GetInt("SEITRACE_TIMEOUT")) * time.Second,
	}
}
