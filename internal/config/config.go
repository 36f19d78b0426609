package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ledger/internal/log"
)

type Config struct {
	// Storage
	Backend    string
	DataDir    string
	SQLitePath string

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Backend:    getEnv("LEDGER_BACKEND", "file"),
		DataDir:    getEnv("LEDGER_DATA_DIR", "./data"),
		SQLitePath: getEnv("LEDGER_SQLITE_PATH", "./data/ledger.db"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

var validBackends = []string{"memory", "file", "sqlite"}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	isValidBackend := false
	for _, backend := range validBackends {
		if c.Backend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid backend '%s': must be one of %v", c.Backend, validBackends))
	}

	if c.Backend == "file" && strings.TrimSpace(c.DataDir) == "" {
		errors = append(errors, "data directory cannot be empty when using file backend")
	}

	if c.Backend == "sqlite" {
		if strings.TrimSpace(c.SQLitePath) == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if info, err := os.Stat(c.SQLitePath); err == nil && info.IsDir() {
			errors = append(errors, fmt.Sprintf("SQLite database path '%s' is a directory", filepath.Clean(c.SQLitePath)))
		}
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
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
