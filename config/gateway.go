package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

// GatewayConfiguration holds the streaming gateway settings
type GatewayConfiguration struct {
	CallTimeout       time.Duration
	KeepAliveInterval time.Duration
	SessionTTL        time.Duration
	SessionSweepEvery time.Duration
	FrameBufferSize   int
}

var gatewayDefaultsOnce sync.Once

func initGatewayDefaults() {
	gatewayDefaultsOnce.Do(func() {
		viper.SetDefault("GATEWAY_CALL_TIMEOUT", 120)         // seconds
		viper.SetDefault("GATEWAY_KEEP_ALIVE_INTERVAL", 15)   // seconds
		viper.SetDefault("GATEWAY_SESSION_TTL", 30)           // minutes
		viper.SetDefault("GATEWAY_SESSION_SWEEP_INTERVAL", 5) // minutes
		viper.SetDefault("GATEWAY_FRAME_BUFFER_SIZE", 64)
	})
}

// GatewayConfig returns the streaming gateway configuration
func GatewayConfig() *GatewayConfiguration {
	initGatewayDefaults()

	return &GatewayConfiguration{
		CallTimeout:       time.Duration(viper.GetInt("GATEWAY_CALL_TIMEOUT")) * time.Second,
		KeepAliveInterval: time.Duration(viper.GetInt("GATEWAY_KEEP_ALIVE_INTERVAL")) * time.Second,
		SessionTTL:        time.Duration(viper.GetInt("GATEWAY_SESSION_TTL")) * time.Minute,
		SessionSweepEvery: time.Duration(viper.GetInt("GATEWAY_SESSION_SWEEP_INTERVAL")) * time.Minute,
		FrameBufferSize:   viper.GetInt("GATEWAY_FRAME_BUFFER_SIZE"),
	}
}
