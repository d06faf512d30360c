package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"meeting-service/internal/config"
)

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("NATS_URL", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("TOKEN_TTL", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "nats://localhost:4222", cfg.NatsURL)
	require.Equal(t, "8000", cfg.AppPort)
	require.Equal(t, time.Hour, cfg.TokenTTL)
}

func TestLoad_ParsesTokenTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_TTL", "30m")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, cfg.TokenTTL)

	t.Setenv("TOKEN_TTL", "bogus")
	_, err = config.Load()
	require.Error(t, err)
}
