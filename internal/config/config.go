// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source SourceConfig `yaml:"source" mapstructure:"source"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Alerts AlertConfig  `yaml:"alerts" mapstructure:"alerts"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// SourceConfig configures the default input document.
type SourceConfig struct {
	Path  string `yaml:"path" mapstructure:"path"`
	Sheet string `yaml:"sheet" mapstructure:"sheet"`
}

// StoreConfig configures the snapshot cache.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP data surface.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// AlertConfig configures the monitoring thresholds.
type AlertConfig struct {
	MinPipelineValue   float64 `yaml:"min_pipeline_value" mapstructure:"min_pipeline_value"`
	MaxOwnerShare      float64 `yaml:"max_owner_share" mapstructure:"max_owner_share"`
	MinRecentDeals     int     `yaml:"min_recent_deals" mapstructure:"min_recent_deals"`
	ActivityWindowDays int     `yaml:"activity_window_days" mapstructure:"activity_window_days"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PIPELINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.path", "mql.csv")
	v.SetDefault("store.path", "snapshots.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("alerts.min_pipeline_value", 50000)
	v.SetDefault("alerts.max_owner_share", 50)
	v.SetDefault("alerts.min_recent_deals", 10)
	v.SetDefault("alerts.activity_window_days", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
