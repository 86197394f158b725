package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

// ServerConfiguration holds the HTTP server settings
type ServerConfiguration struct {
	Debug              bool
	Host               string
	Port               string
	Timezone           string
	Environment        string
	SentryDSN          string
	RateLimitPerSecond int
}

var (
	serverDefaultsOnce sync.Once
	serverConfigOnce   sync.Once
	serverConfig       *ServerConfiguration
)

// initServerDefaults sets the default values for server configuration.
// This is called once during initialization to avoid concurrent map writes.
func initServerDefaults() {
	serverDefaultsOnce.Do(func() {
		viper.SetDefault("DEBUG", false)
		viper.SetDefault("HOST", "0.0.0.0")
		viper.SetDefault("PORT", "8000")
		viper.SetDefault("TIMEZONE", "UTC")
		viper.SetDefault("ENVIRONMENT", "local")
		viper.SetDefault("RATE_LIMIT_PER_SECOND", 20)
	})
}

// ServerConfig returns the server configurations.
// The config is initialized once and cached to avoid concurrent map writes.
func ServerConfig() *ServerConfiguration {
	initServerDefaults()

	serverConfigOnce.Do(func() {
		serverConfig = &ServerConfiguration{
			Debug:              viper.GetBool("DEBUG"),
			Host:               viper.GetString("HOST"),
			Port:               viper.GetString("PORT"),
			Timezone:           viper.GetString("TIMEZONE"),
			Environment:        viper.GetString("ENVIRONMENT"),
			SentryDSN:          viper.GetString("SENTRY_DSN"),
			RateLimitPerSecond: viper.GetInt("RATE_LIMIT_PER_SECOND"),
		}
	})
	return serverConfig
}

func init() {
	initServerDefaults()

	if err := SetupConfig(); err != nil {
		panic(fmt.Sprintf("config SetupConfig() error: %s", err))
	}
}
