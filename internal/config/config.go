// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	API     APIConfig
	Session SessionConfig
	App     AppConfig
	Backend BackendConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// APIConfig locates the customer backend.
type APIConfig struct {
	BaseURL string
}

// SessionConfig holds the cookie signing key.
type SessionConfig struct {
	Secret      string
	IdleMinutes int
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev bool
}

// BackendConfig drives the development backend. An empty DatabaseDSN selects
// the SQLite file at SQLitePath.
type BackendConfig struct {
	Port        string
	DatabaseDSN string
	SQLitePath  string
	Seed        bool
	Migrations  bool
}

// UsePostgres reports whether a PostgreSQL DSN is configured.
func (b BackendConfig) UsePostgres() bool { return b.DatabaseDSN != "" }

// DefaultAPIURL is where the backend listens during local development.
const DefaultAPIURL = "http://localhost:5000"

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_URL", getEnv("VITE_API_URL", DefaultAPIURL)), "/"),
		},
		Session: SessionConfig{
			Secret:      getEnv("SESSION_SECRET", ""),
			IdleMinutes: getEnvInt("SESSION_IDLE_MINUTES", 720),
		},
		App: AppConfig{
			Dev: getEnvBool("DEV", true),
		},
		Backend: BackendConfig{
			Port:        getEnv("BACKEND_PORT", "5000"),
			DatabaseDSN: getEnv("DATABASE_DSN", ""),
			SQLitePath:  getEnv("BACKEND_SQLITE_PATH", "portal-dev.db"),
			Seed:        getEnvBool("DB_SEED", true),
			Migrations:  getEnvBool("MIGRATIONS", true),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
