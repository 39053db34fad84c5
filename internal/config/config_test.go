package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Greater(t, cfg.Server.WriteTimeout, cfg.Payment.Timeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5*time.Second, cfg.Order.ReservationTxTimeout)
	assert.Equal(t, 3, cfg.Order.MaxRetryAttempts)
	assert.Equal(t, 100, cfg.Order.MaxPageSize)
	assert.Equal(t, 30*time.Second, cfg.Payment.Timeout)
	assert.Equal(t, "BR", cfg.Payment.DefaultCountry)
	assert.False(t, cfg.Split.Enabled)
	assert.Equal(t, "admin", cfg.Auth.AdminRole)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PAYMENT_TIMEOUT", "2s")
	t.Setenv("SPLIT_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Payment.Timeout)
	assert.True(t, cfg.Split.Enabled)
	assert.Equal(t, "kafka:9092", cfg.Kafka.Brokers)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("REDIS_STATUS_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}
