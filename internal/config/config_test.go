package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("DB_DRIVER", "")

	cfg := Load()

	assert.Equal(t, 15*time.Minute, cfg.Auth.JWTExpiry)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "purchase.completed", cfg.Kafka.Topics.PurchaseCompleted)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestQRSecretFallsBackToJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("QR_SECRET_KEY", "")
	assert.Equal(t, "jwt-secret", Load().Auth.QRSecret)

	t.Setenv("QR_SECRET_KEY", "qr-secret")
	assert.Equal(t, "qr-secret", Load().Auth.QRSecret)
}
