// Package config handles global configuration loading using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// GlobalConfig represents the top-level static configuration.
// Maps to the `pcapscan:` root key in YAML.
type GlobalConfig struct {
	Log     LogConfig     `mapstructure:"log"`
	Reader  ReaderConfig  `mapstructure:"reader"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ReaderConfig contains decoder defaults.
type ReaderConfig struct {
	// BatchSize is the default batch capacity used when the caller does not
	// pass one. 2048 matches the vector size of the embedding query engine.
	BatchSize int `mapstructure:"batch_size"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`  // debug / info / warn / error
	Format  string           `mapstructure:"format"` // json / text
	Outputs LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig contains structured log output destinations.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// configRoot is the top-level wrapper matching the YAML structure `pcapscan: ...`.
type configRoot struct {
	Pcapscan GlobalConfig `mapstructure:"pcapscan"`
}

// Default returns the built-in configuration used when no config file is given.
func Default() *GlobalConfig {
	return &GlobalConfig{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Reader: ReaderConfig{
			BatchSize: 2048,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9091",
			Path:    "/metrics",
		},
	}
}

// Load loads configuration from file.
// The YAML file uses `pcapscan:` as root key; env vars use the PCAPSCAN_
// prefix (e.g. PCAPSCAN_LOG_LEVEL) via the key replacer.
func Load(path string) (*GlobalConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Environment variable overrides. The `pcapscan.` key prefix naturally
	// maps to PCAPSCAN_ env vars through the replacer
	// (key "pcapscan.log.level" → env "PCAPSCAN_LOG_LEVEL").
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Pcapscan

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration.
// All keys use the "pcapscan." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("pcapscan.log.level", "info")
	v.SetDefault("pcapscan.log.format", "text")
	v.SetDefault("pcapscan.log.outputs.file.enabled", false)
	v.SetDefault("pcapscan.log.outputs.file.path", "/var/log/pcapscan/pcapscan.log")
	v.SetDefault("pcapscan.log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("pcapscan.log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("pcapscan.log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("pcapscan.log.outputs.file.rotation.compress", true)

	v.SetDefault("pcapscan.reader.batch_size", 2048)

	v.SetDefault("pcapscan.metrics.enabled", false)
	v.SetDefault("pcapscan.metrics.listen", ":9091")
	v.SetDefault("pcapscan.metrics.path", "/metrics")
}

// ValidateAndApplyDefaults validates configuration and applies runtime defaults.
func (cfg *GlobalConfig) ValidateAndApplyDefaults() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json/text)", cfg.Log.Format)
	}
	if cfg.Reader.BatchSize <= 0 {
		return fmt.Errorf("invalid reader.batch_size: %d (must be positive)", cfg.Reader.BatchSize)
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	return nil
}
