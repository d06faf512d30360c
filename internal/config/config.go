package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config is loaded once at startup and never mutated afterwards. The
// JWT secret lives here and is handed to the token manager explicitly
// instead of being read from the environment at call sites.
type Config struct {
	DatabaseURL string
	NatsURL     string
	AppPort     string
	JWTSecret   string
	TokenTTL    time.Duration
}

func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8000"
	}

	ttl := time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		ttl = parsed
	}

	return &Config{
		DatabaseURL: dbURL,
		NatsURL:     natsURL,
		AppPort:     port,
		JWTSecret:   secret,
		TokenTTL:    ttl,
	}, nil
}
