package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string

	// Auth provider settings: tokens are verified against this secret
	// and must carry the configured issuer and audience.
	JWTSecret   string
	JWTIssuer   string
	JWTAudience []string

	AllowedOrigins []string

	// EnforceDeckOwnership gates the deck-ownership check on card
	// creation and deck-scoped listing.
	EnforceDeckOwnership bool

	// OrphanMaxAge is how old a choice-less multiple-choice card must be
	// before the startup reaper removes it.
	OrphanMaxAge time.Duration
}

// Load reads configuration from the environment. No package-level
// state: callers hold the returned struct and pass it down.
func Load() (Config, error) {
	cfg := Config{
		Port:                 getenv("PORT", "8080"),
		DatabaseURL:          os.Getenv("DB_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET_KEY"),
		JWTIssuer:            os.Getenv("JWT_ISSUER"),
		JWTAudience:          splitCSV(getenv("JWT_AUDIENCE", "authenticated")),
		AllowedOrigins:       splitCSV(getenv("ALLOWED_ORIGINS", "http://localhost:3000")),
		EnforceDeckOwnership: getenvBool("ENFORCE_DECK_OWNERSHIP", true),
		OrphanMaxAge:         getenvDuration("ORPHAN_MAX_AGE", 24*time.Hour),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("config: DB_URL not set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("config: JWT_SECRET_KEY not set")
	}
	if cfg.JWTIssuer == "" {
		return Config{}, errors.New("config: JWT_ISSUER not set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
