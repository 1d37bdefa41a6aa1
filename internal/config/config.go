// Package config loads the application configuration from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Wind    WindConfig    `toml:"wind"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Enabled             bool     `toml:"enabled"`
	Host                string   `toml:"host"`
	Port                int      `toml:"port"`
	CORSAllowedOrigins  []string `toml:"cors_allowed_origins"`
	ReadTimeoutSeconds  int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `toml:"write_timeout_seconds"`
}

// StorageConfig represents the SQLite storage configuration
type StorageConfig struct {
	Path string `toml:"path"`
}

// WindConfig is the fallback wind used for files that carry no wind
// records of their own (the XML format never does).
type WindConfig struct {
	DirectionDeg float64 `toml:"direction_deg"`
	SpeedKts     float64 `toml:"speed_kts"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Enabled:             false,
			Host:                "127.0.0.1",
			Port:                8080,
			CORSAllowedOrigins:  []string{"*"},
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 30,
		},
		Storage: StorageConfig{
			Path: "sailtrace.db",
		},
		Wind: WindConfig{
			DirectionDeg: 0,
			SpeedKts:     0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the configuration from the given path, layered over the
// defaults. An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Wind.DirectionDeg < 0 || c.Wind.DirectionDeg >= 360 {
		return fmt.Errorf("wind direction must be in [0,360): %f", c.Wind.DirectionDeg)
	}
	if c.Wind.SpeedKts < 0 {
		return fmt.Errorf("wind speed must be non-negative: %f", c.Wind.SpeedKts)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage path must not be empty")
	}
	return nil
}
