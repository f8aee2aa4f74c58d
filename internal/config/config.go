// Package config provides configuration loading from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultDBPath         = ":memory:"
	DefaultQueryTimeoutMs = 5000
	DefaultJobs           = 4
)

// Config holds all configuration for the tablecheck CLI.
type Config struct {
	DBPath       string        // TABLECHECK_DB, default ":memory:"
	QueryTimeout time.Duration // TABLECHECK_QUERY_TIMEOUT_MS, default 5000ms
	Jobs         int           // TABLECHECK_JOBS, default 4
	NoColor      bool          // NO_COLOR, default false

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "warn"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 3
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Defaults returns the configuration used when no environment is set.
func Defaults() *Config {
	return &Config{
		DBPath:        DefaultDBPath,
		QueryTimeout:  DefaultQueryTimeoutMs * time.Millisecond,
		Jobs:          DefaultJobs,
		LogLevel:      "warn",
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
		LogMaxAgeDays: 28,
		LogCompress:   true,
	}
}

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory is loaded first if present;
// variables already set in the environment take precedence over it.
func Load() (*Config, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, err
	}

	return &Config{
		DBPath:       getEnvString("TABLECHECK_DB", DefaultDBPath),
		QueryTimeout: getEnvDurationMs("TABLECHECK_QUERY_TIMEOUT_MS", DefaultQueryTimeoutMs),
		Jobs:         getEnvInt("TABLECHECK_JOBS", DefaultJobs),
		NoColor:      getEnvBool("NO_COLOR", false),

		LogLevel:      getEnvString("LOG_LEVEL", "warn"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}, nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
