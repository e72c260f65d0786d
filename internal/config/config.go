package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port                 string
	Env                  string
	DatabaseDSN          string
	JWTSecret            string
	JWTExpiry            time.Duration
	SessionSweepInterval time.Duration
	AuthSkipPaths        []string
}

func Load() Config {
	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		DatabaseDSN:          getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/taskforge?parseTime=true"),
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		JWTExpiry:            24 * time.Hour,
		SessionSweepInterval: getDuration("SESSION_SWEEP_INTERVAL", time.Hour),
		AuthSkipPaths:        getList("AUTH_SKIP_PATHS", "/api/auth/register,/api/auth/login,/api/auth/validate,/health"),
	}

	if cfg.Env == "production" && cfg.JWTSecret == "dev-secret-change-in-production" {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		slog.Warn("invalid duration, using default", "key", key, "value", v)
	}
	return fallback
}

func getList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
