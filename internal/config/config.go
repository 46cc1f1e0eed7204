package config

import (
	"fmt"
	"os"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Port        string
	DatabaseURL string

	// Initial admin account created on first boot when no user holds the
	// admin role yet.
	AdminName     string
	AdminEmail    string
	AdminPassword string

	AllowOrigins []string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_NAME", "netadmin"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   dsn,
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AllowOrigins: []string{
			getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
