package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Database configuration (the relational mirror)
	DBType            string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBAutoMigrate     bool // create mirror tables on start (dev/test databases only)

	// Upstream project-management API
	UpstreamAPIURL     string
	UpstreamAuthURL    string
	UpstreamAPIToken   string
	UpstreamAPIVersion string
	UpstreamPerPage    int
	UpstreamTimeoutSec int

	// Local surface authorization
	InternalSecret string
	AllowedEmails  []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "3000"),
		DBType:             getEnv("DB_TYPE", "postgres"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBDatabase:         getEnv("DB_DATABASE", ""),
		DBUser:             getEnv("DB_USER", ""),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:  getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		DBAutoMigrate:      getEnvAsBool("DB_AUTOMIGRATE", false),
		UpstreamAPIURL:     getEnv("UPSTREAM_API_URL", "https://client-api.us.fieldwire.com/api/v3"),
		UpstreamAuthURL:    getEnv("UPSTREAM_AUTH_URL", "https://client-api.super.fieldwire.com/api_keys/jwt"),
		UpstreamAPIToken:   getEnv("UPSTREAM_API_TOKEN", ""),
		UpstreamAPIVersion: getEnv("UPSTREAM_API_VERSION", "2023-01-25"),
		UpstreamPerPage:    getEnvAsInt("UPSTREAM_PER_PAGE", 50),
		UpstreamTimeoutSec: getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 30),
		InternalSecret:     getEnv("INTERNAL_SECRET", ""),
		AllowedEmails:      getEnvAsList("ALLOWED_EMAILS"),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBType != "sqlite" && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	if cfg.UpstreamAPIToken == "" {
		return nil, fmt.Errorf("UPSTREAM_API_TOKEN is required")
	}
	if cfg.InternalSecret == "" {
		return nil, fmt.Errorf("INTERNAL_SECRET is required")
	}

	return cfg, nil
}

// EmailAllowed reports whether the given email passes the allow-list.
// An empty allow-list admits everyone holding the internal secret.
func (c *Config) EmailAllowed(email string) bool {
	if len(c.AllowedEmails) == 0 {
		return true
	}
	for _, allowed := range c.AllowedEmails {
		if strings.EqualFold(allowed, email) {
			return true
		}
	}
	return false
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated environment variable, dropping blanks
func getEnvAsList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
