// Package config loads server configuration from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig selects the storage driver and its connection string.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

// RedisConfig enables the analytics cache when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// AnalyticsConfig sets the time zone calendar days are evaluated in and the
// default success-rate window.
type AnalyticsConfig struct {
	Timezone   string `yaml:"timezone"`
	WindowDays int    `yaml:"window_days"`
}

// LogConfig sets the minimum zap log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Log       LogConfig       `yaml:"log"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server:    ServerConfig{Addr: ":8080"},
		Database:  DatabaseConfig{Driver: DriverPostgres},
		Redis:     RedisConfig{TTL: 10 * time.Minute},
		Analytics: AnalyticsConfig{Timezone: "UTC", WindowDays: 7},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads path (or CONFIG_FILE when path is empty) on top of the defaults,
// applies environment overrides and validates the result. A missing path is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := overrideFromEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks driver, time zone and window settings.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Analytics.WindowDays < 1 {
		return fmt.Errorf("analytics.window_days must be positive, got %d", c.Analytics.WindowDays)
	}
	return nil
}

// Location resolves the analytics time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Analytics.Timezone)
	if err != nil {
		return nil, fmt.Errorf("analytics.timezone: %w", err)
	}
	return loc, nil
}

func overrideFromEnv(cfg *Config) error {
	setString(&cfg.Server.Addr, "ADDR")
	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Analytics.Timezone, "ANALYTICS_TIMEZONE")
	setString(&cfg.Log.Level, "LOG_LEVEL")

	if err := setInt(&cfg.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}
	if err := setInt(&cfg.Analytics.WindowDays, "ANALYTICS_WINDOW_DAYS"); err != nil {
		return err
	}
	if v := os.Getenv("REDIS_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REDIS_TTL: %w", err)
		}
		cfg.Redis.TTL = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
