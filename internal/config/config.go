package config

import (
	"fmt"
	"os"
)

// Config holds process configuration read from the environment.
type Config struct {
	DatabaseURL string
	Port        string
	Env         string
}

// Load reads configuration from environment variables with defaults.
// DATABASE_URL may be assembled from DB_* parts when not set directly.
func Load() *Config {
	return &Config{
		DatabaseURL: databaseURL(),
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("GO_ENV", "development"),
	}
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	password := os.Getenv("DB_PASSWORD")
	if password == "" {
		return ""
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "postgres"),
		password,
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "urbansdk"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
