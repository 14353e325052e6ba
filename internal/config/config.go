// Package config loads service configuration from config files and the
// environment.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// AnalyzerConfig holds semantic analyzer settings. When Enabled is false the
// engine runs rule-based scoring only.
type AnalyzerConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// EngineConfig holds recommendation engine settings.
type EngineConfig struct {
	// Workers caps concurrent candidate scoring per generation call.
	Workers int `mapstructure:"workers"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Load reads configuration from an optional .env file, an optional
// config.yaml, and environment variable overrides (e.g. DATABASE_URL for
// database.url).
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Register every key so environment overrides apply during Unmarshal.
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.url", "")
	v.SetDefault("analyzer.enabled", true)
	v.SetDefault("analyzer.api_key", "")
	v.SetDefault("analyzer.model", "")
	v.SetDefault("analyzer.timeout_seconds", 15)
	v.SetDefault("engine.workers", 4)
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("config error: database.url is required (set DATABASE_URL)")
	}
	if c.Analyzer.Enabled && c.Analyzer.APIKey == "" {
		return fmt.Errorf("config error: analyzer.api_key is required when the analyzer is enabled (set ANALYZER_API_KEY)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: server.port must be between 1 and 65535")
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("config error: engine.workers must be non-negative")
	}
	return nil
}
