package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the console configuration. A YAML file is optional; environment
// variables always win over file values.
type Config struct {
	Env         string `yaml:"env" env:"NAGSTER_ENV" env-default:"local"`
	StoragePath string `yaml:"storage_path" env:"NAGSTER_STORAGE"`
	DocsURL     string `yaml:"docs_url" env:"NAGSTER_DOCS_URL"`

	Backend BackendConfig `yaml:"backend"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type BackendConfig struct {
	BaseURL   string  `yaml:"base_url" env:"NAGSTER_BACKEND_URL" env-default:"https://nagster.onrender.com"`
	Timeout   int     `yaml:"timeout" env:"NAGSTER_BACKEND_TIMEOUT" env-default:"30"`
	RateLimit float64 `yaml:"rate_limit" env:"NAGSTER_RATE_LIMIT" env-default:"5"`
	Burst     int     `yaml:"burst" env:"NAGSTER_RATE_BURST" env-default:"10"`
}

// TimeoutDuration returns the per-request timeout.
func (b BackendConfig) TimeoutDuration() time.Duration {
	return time.Duration(b.Timeout) * time.Second
}

type LogConfig struct {
	Level  string `yaml:"level" env:"NAGSTER_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"NAGSTER_LOG_FORMAT" env-default:"console"`
	// Path "-" logs to stderr.
	Path string `yaml:"path" env:"NAGSTER_LOG_PATH"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr" env:"NAGSTER_METRICS_ADDR"`
}

// LoadConfig loads .env (if present), then the YAML file at path (if it
// exists), then the environment.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if path != "" && fileExists(path) {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")

	if c.StoragePath == "" || c.Log.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to find home directory: %w", err)
		}
		dir := filepath.Join(home, ".nagster")
		if c.StoragePath == "" {
			c.StoragePath = filepath.Join(dir, "nagster.db")
		}
		if c.Log.Path == "" {
			c.Log.Path = filepath.Join(dir, "nagster.log")
		}
	}

	if c.DocsURL == "" {
		c.DocsURL = c.Backend.BaseURL + "/docs"
	}
	return nil
}

// Validate checks the fields that cannot be defaulted.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid backend base_url %q", c.Backend.BaseURL)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive, got %d", c.Backend.Timeout)
	}
	if c.Backend.RateLimit <= 0 {
		return fmt.Errorf("backend rate_limit must be positive, got %v", c.Backend.RateLimit)
	}
	if c.Backend.Burst < 1 {
		c.Backend.Burst = 1
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
