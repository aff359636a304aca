package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "SEED_DATA", "USE_KAFKA", "KAFKA_BROKERS", "IDEMPOTENCY_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.True(t, cfg.SeedData)
	assert.False(t, cfg.UseKafka)
	assert.Equal(t, []string{"localhost:9093"}, cfg.KafkaBrokers)
	assert.Equal(t, 300, cfg.IdempotencyTTL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("SEED_DATA", "false")
	t.Setenv("USE_KAFKA", "1")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("IDEMPOTENCY_TTL", "60")
	t.Setenv("LOG_LEVEL", "warn")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.False(t, cfg.SeedData)
	assert.True(t, cfg.UseKafka)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 60, cfg.IdempotencyTTL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestGetEnvAsInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	assert.Equal(t, 3, getEnvAsInt("REDIS_DB", 3))
}
