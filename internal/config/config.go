// Package config loads the server configuration from a YAML file with
// environment variable overrides on top. Every setting has a usable
// default so the server starts with no file at all.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML accepts "24h" style strings.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the full server configuration.
type Config struct {
	ListenAddr  string    `yaml:"listen_addr"`
	DatabaseURL string    `yaml:"database_url"`
	JWTSecret   string    `yaml:"jwt_secret"`
	TokenTTL    Duration  `yaml:"token_ttl"`
	CORSOrigins []string  `yaml:"cors_origins"`
	RateLimit   RateLimit `yaml:"rate_limit"`
	LogLevel    string    `yaml:"log_level"`
}

// RateLimit tunes the per-caller throttle. Zero requests per second
// disables it.
type RateLimit struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	Burst             int `yaml:"burst"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		ListenAddr:  ":8080",
		JWTSecret:   "development-secret",
		TokenTTL:    Duration(24 * time.Hour),
		CORSOrigins: []string{"*"},
		RateLimit:   RateLimit{RequestsPerSecond: 50, Burst: 100},
		LogLevel:    "info",
	}
}

// LoadFromPath reads a YAML config file and applies env overrides.
func LoadFromPath(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadOrDefault reads the file when it exists, falling back to the
// defaults plus env overrides otherwise.
func LoadOrDefault(path string) Config {
	if path != "" {
		if cfg, err := LoadFromPath(path); err == nil {
			return cfg
		}
	}
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			c.TokenTTL = Duration(ttl)
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		c.CORSOrigins = origins
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if rps, err := strconv.Atoi(v); err == nil {
			c.RateLimit.RequestsPerSecond = rps
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if burst, err := strconv.Atoi(v); err == nil {
			c.RateLimit.Burst = burst
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}
