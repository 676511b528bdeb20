// Package config provides configuration handling for the device channel daemon.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/irctrakz/devchan/pkg/core"
	"github.com/irctrakz/devchan/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Config represents the complete daemon configuration.
type Config struct {
	// Channel selects the device endpoint to own.
	Channel core.ChannelConfig `json:"channel" yaml:"channel"`

	// Health configures the HTTP health endpoint.
	Health HealthConfig `json:"health" yaml:"health"`

	// Metrics configures the periodic metrics dump.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Logging contains the logging configuration.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// HealthConfig contains configuration for the health endpoint.
type HealthConfig struct {
	// Addr is the listen address; empty disables the endpoint.
	Addr string `json:"addr" yaml:"addr"`
}

// MetricsConfig contains configuration for the metrics reporter.
type MetricsConfig struct {
	// Interval between dumps; zero disables the reporter.
	Interval time.Duration `json:"interval" yaml:"interval"`

	// Format is "text" or "json".
	Format string `json:"format" yaml:"format"`
}

// LoggingConfig contains configuration for logging.
type LoggingConfig struct {
	// Level is the logging level (debug, info, warn, error).
	Level string `json:"level" yaml:"level"`

	// File is the log file path.
	File string `json:"file" yaml:"file"`

	// MaxSize is the maximum size of the log file in megabytes.
	MaxSize int `json:"maxSize" yaml:"maxSize"`

	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int `json:"maxBackups" yaml:"maxBackups"`

	// MaxAge is the maximum number of days to retain old log files.
	MaxAge int `json:"maxAge" yaml:"maxAge"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Channel: core.ChannelConfig{
			DevicePath: "/dev/devchan0",
			Kind:       core.DeviceKindNode,
			TUNMTU:     1420,
		},
		Health: HealthConfig{
			Addr: ":8080",
		},
		Metrics: MetricsConfig{
			Interval: 0,
			Format:   "text",
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// LoadFromFile loads configuration from a file.
func LoadFromFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Determine file format based on extension
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", path)
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv(config *Config) {
	// Channel config
	if val := os.Getenv("DEVCHAN_DEVICE_PATH"); val != "" {
		config.Channel.DevicePath = val
	}
	if val := os.Getenv("DEVCHAN_DEVICE_KIND"); val != "" {
		config.Channel.Kind = strings.ToLower(strings.TrimSpace(val))
	}
	if val := os.Getenv("DEVCHAN_TUN_MTU"); val != "" {
		if mtu, err := strconv.Atoi(val); err == nil {
			config.Channel.TUNMTU = mtu
		}
	}

	// Health and metrics
	if val, ok := os.LookupEnv("HEALTH_ADDR"); ok {
		config.Health.Addr = strings.TrimSpace(val)
	}
	if val := strings.TrimSpace(os.Getenv("METRICS_INTERVAL")); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			config.Metrics.Interval = d
		}
	}
	if val := strings.TrimSpace(os.Getenv("METRICS_FORMAT")); val != "" {
		config.Metrics.Format = strings.ToLower(val)
	}

	// Logging config
	if val := os.Getenv("LOGGING_LEVEL"); val != "" {
		config.Logging.Level = val
	}
	if val := os.Getenv("LOGGING_FILE"); val != "" {
		config.Logging.File = val
	}
	if val := os.Getenv("LOGGING_MAX_SIZE"); val != "" {
		if maxSize, err := strconv.Atoi(val); err == nil {
			config.Logging.MaxSize = maxSize
		}
	}
	if val := os.Getenv("LOGGING_MAX_BACKUPS"); val != "" {
		if maxBackups, err := strconv.Atoi(val); err == nil {
			config.Logging.MaxBackups = maxBackups
		}
	}
	if val := os.Getenv("LOGGING_MAX_AGE"); val != "" {
		if maxAge, err := strconv.Atoi(val); err == nil {
			config.Logging.MaxAge = maxAge
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Channel.DevicePath) == "" {
		return fmt.Errorf("device path cannot be empty")
	}
	switch c.Channel.Kind {
	case "", core.DeviceKindNode:
	case core.DeviceKindTUN:
		if c.Channel.TUNMTU <= 0 {
			return fmt.Errorf("invalid TUN MTU: %d", c.Channel.TUNMTU)
		}
		if strings.Contains(c.Channel.DevicePath, "/") {
			return fmt.Errorf("TUN device path must be an interface name, got %s", c.Channel.DevicePath)
		}
	default:
		return fmt.Errorf("invalid device kind: %s", c.Channel.Kind)
	}

	if c.Metrics.Interval < 0 {
		return fmt.Errorf("invalid metrics interval: %s", c.Metrics.Interval)
	}
	switch c.Metrics.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid metrics format: %s", c.Metrics.Format)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	return nil
}

// ApplyLogging applies the logging configuration.
func (c *Config) ApplyLogging() error {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return err
	}
	logging.SetLevel(level)

	if c.Logging.File != "" {
		err := logging.EnableFileLogging(
			c.Logging.File,
			c.Logging.MaxSize,
			c.Logging.MaxBackups,
			c.Logging.MaxAge,
		)
		if err != nil {
			return fmt.Errorf("failed to enable file logging: %w", err)
		}
	}

	return nil
}

// SaveToFile saves the configuration to a file.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
