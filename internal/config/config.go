package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/go-tangra/go-tangra-hardware/internal/logger"
)

// Config holds the collector daemon configuration.
type Config struct {
	HTTPListen    string        `mapstructure:"http_listen"`
	EnableSwagger bool          `mapstructure:"enable_swagger"`
	DatabasePath  string        `mapstructure:"database"`
	RetentionDays int           `mapstructure:"retention_days"`
	PurgeInterval time.Duration `mapstructure:"purge_interval"`
	ApiSecret     string        `mapstructure:"api_secret"`
	Log           logger.Config `mapstructure:"log"`
}

// Load reads configuration from file and environment.
func Load(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("collector")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("/etc/hardware-collector")
	}

	viper.SetDefault("http_listen", ":9560")
	viper.SetDefault("enable_swagger", true)
	viper.SetDefault("database", "hardware.db")
	viper.SetDefault("retention_days", 0)
	viper.SetDefault("purge_interval", "24h")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")

	viper.SetEnvPrefix("HARDWARE")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
