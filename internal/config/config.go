// Package config loads the engine configuration from the environment, with
// an optional .env file for local runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the insight runner needs.
type Config struct {
	// Google Cloud
	ProjectID string

	// Reasoning model
	ModelName      string
	InvokeTimeout  time.Duration
	RecentInsights int

	// Redis cache; empty addr disables caching
	RedisAddr string

	// Runner
	OwnerID    string
	DailyGuard bool
	LogLevel   string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; a missing file is not
// an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ProjectID:      getEnv("GOOGLE_CLOUD_PROJECT", ""),
		ModelName:      getEnv("INSIGHT_MODEL", "gemini-2.0-flash"),
		InvokeTimeout:  getEnvDuration("INSIGHT_TIMEOUT", 60*time.Second),
		RecentInsights: getEnvInt("INSIGHT_RECENT_WINDOW", 5),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		OwnerID:        getEnv("OWNER_ID", ""),
		DailyGuard:     getEnvBool("INSIGHT_DAILY_GUARD", true),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.ProjectID == "" {
		errors = append(errors, "GOOGLE_CLOUD_PROJECT must be set")
	}
	if c.OwnerID == "" {
		errors = append(errors, "OWNER_ID must be set")
	}
	if c.ModelName == "" {
		errors = append(errors, "INSIGHT_MODEL cannot be empty")
	}
	if c.RecentInsights < 0 {
		errors = append(errors, fmt.Sprintf("invalid recent window %d: must not be negative", c.RecentInsights))
	}
	if c.InvokeTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid insight timeout %v: must be at least 1 second", c.InvokeTimeout))
	} else if c.InvokeTimeout > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid insight timeout %v: must be at most 1 hour", c.InvokeTimeout))
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
