package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration
type Config struct {
	Environment          string
	ServerPort           int
	RedisURL             string
	DatabaseURL          string
	JWTSecret            string
	LogLevel             string
	CORSAllowedOrigins   []string
	RateLimitRequests    int
	RateLimitWindowSecs  int
	StatsIntervalSeconds int
	SeedDemoData         bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	rateLimitRequests, err := strconv.Atoi(getEnv("RATE_LIMIT_REQUESTS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
	}

	rateLimitWindow, err := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW_SECONDS: %w", err)
	}

	statsInterval, err := strconv.Atoi(getEnv("STATS_INTERVAL_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_INTERVAL_SECONDS: %w", err)
	}

	environment := getEnv("ENVIRONMENT", "development")

	// Demo data is loaded by default outside production so the
	// marketplace is browsable on first boot
	seedDefault := "true"
	if environment == "production" {
		seedDefault = "false"
	}
	seedDemoData, err := strconv.ParseBool(getEnv("SEED_DEMO_DATA", seedDefault))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEMO_DATA: %w", err)
	}

	return &Config{
		Environment: environment,
		ServerPort:  port,
		// Empty REDIS_URL and DATABASE_URL keep sessions and
		// accounts fully in memory
		RedisURL:    getEnv("REDIS_URL", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
		RateLimitRequests:    rateLimitRequests,
		RateLimitWindowSecs:  rateLimitWindow,
		StatsIntervalSeconds: statsInterval,
		SeedDemoData:         seedDemoData,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
