package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_NAME", "liaison_test")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("REDIS_TTL", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "liaison_test", cfg.Database.Name)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Contains(t, cfg.DSN(), "dbname=liaison_test")
}
