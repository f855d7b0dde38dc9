package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// HTTP Server
	Port string `yaml:"port"`

	// Storage backend selection
	DataBackend  string `yaml:"data_backend"`
	SQLiteDBPath string `yaml:"sqlite_db_path"`

	// Auth boundary (empty secret disables the gate)
	AuthJWTSecret  string `yaml:"auth_jwt_secret"`
	AuthCookieName string `yaml:"auth_cookie_name"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// HTTP hardening
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
}

// Load builds the configuration from defaults, an optional YAML file
// (CASHLENS_CONFIG, falling back to ./cashlens.yaml when present) and
// environment variable overrides, in that order.
func Load() *Config {
	cfg := &Config{
		Port:               "8081",
		DataBackend:        "memory",
		SQLiteDBPath:       "./data/cashlens.db",
		AuthCookieName:     "cashlens_token",
		LogLevel:           "info",
		RateLimitPerMinute: 60,
	}

	cfg.loadFile()
	cfg.loadEnv()

	return cfg
}

func (c *Config) loadFile() {
	path := os.Getenv("CASHLENS_CONFIG")
	if path == "" {
		path = "cashlens.yaml"
		if _, err := os.Stat(path); err != nil {
			return
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	// A broken config file is a configuration error; Validate reports
	// the resulting invalid values, so a parse failure is not fatal here.
	_ = yaml.Unmarshal(data, c)
}

func (c *Config) loadEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.DataBackend = getEnv("DATA_BACKEND", c.DataBackend)
	c.SQLiteDBPath = getEnv("SQLITE_DB_PATH", c.SQLiteDBPath)
	c.AuthJWTSecret = getEnv("AUTH_JWT_SECRET", c.AuthJWTSecret)
	c.AuthCookieName = getEnv("AUTH_COOKIE_NAME", c.AuthCookieName)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate log level
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	// Validate rate limit
	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	} else if c.RateLimitPerMinute > 10000 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at most 10000", c.RateLimitPerMinute))
	}

	// Auth cookie name must be set when the gate is enabled
	if c.AuthJWTSecret != "" && c.AuthCookieName == "" {
		errors = append(errors, "auth cookie name cannot be empty when a JWT secret is configured")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
