package config

import (
	"fmt"
	"github.com/spf13/viper"
)

type MetricsConfig struct {
	// Port 0 disables the /metrics endpoint.
	Port int `mapstructure:"port"`
}

func (config MetricsConfig) setDefaults() {
	viper.SetDefault("metrics.port", 8080)
}

func (config MetricsConfig) validate() error {
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("metrics port out of range: %d", config.Port)
	}
	return nil
}
