package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Configuration aggregates all per-concern configurations
type Configuration struct {
	Server   ServerConfiguration
	Seitrace SeitraceConfiguration
	Gateway  GatewayConfiguration
	Redis    RedisConfiguration
}

// SetupConfig loads the .env file when one exists and enables environment
// variable overrides. A missing .env is not an error, values then come from
// the process environment and the registered defaults.
func SetupConfig() error {
	var configuration *Configuration

	viper.AddConfigPath("../../..")
	viper.AddConfigPath("../..")
	viper.AddConfigPath("..")
	viper.AddConfigPath(".")

	envFilePath := os.Getenv("ENV_FILE_PATH")
	if envFilePath == "" {
		envFilePath = ".env"
	}

	viper.SetConfigName(envFilePath)
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Error to reading config file, %s", err)
			return err
		}
	}

	if err := viper.Unmarshal(&configuration); err != nil {
		fmt.Printf("error to decode, %v", err)
		return err
	}

	return nil
}
