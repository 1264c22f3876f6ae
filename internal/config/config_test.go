package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("LOW_STOCK_THRESHOLD", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "public", cfg.PublicUserID)
	require.NotNil(t, cfg.Location)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("LOW_STOCK_THRESHOLD", "12")
	t.Setenv("WORKER_CONCURRENCY", "nope")
	t.Setenv("TIMEZONE", "Not/AZone")

	cfg := Load()
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 12, cfg.LowStockThreshold)
	assert.Equal(t, 4, cfg.WorkerConcurrency)
	assert.Equal(t, "WIB", cfg.Location.String())
}
