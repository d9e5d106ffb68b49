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
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, BackendPostgres, cfg.CatalogBackend)
	assert.Equal(t, FeedPostgres, cfg.ChangeFeed)
	assert.Equal(t, BackendRedis, cfg.SnapshotBackend)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Second, cfg.CheckoutProcessingDelay)
	assert.Equal(t, 2*time.Second, cfg.CheckoutSuccessDelay)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.UsesKafka())
}

func TestLoad_SessionConfig(t *testing.T) {
	t.Setenv("CHECKOUT_PROCESSING_DELAY", "250ms")
	t.Setenv("SESSION_IDLE_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	s := cfg.Session()
	assert.Equal(t, 250*time.Millisecond, s.ProcessingDelay)
	assert.Equal(t, 5*time.Minute, s.IdleTTL)
	assert.Equal(t, 50, s.MaxHistory)
}

func TestLoad_MemoryOnly(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", "memory")
	t.Setenv("CATALOG_CHANGE_FEED", "none")
	t.Setenv("SNAPSHOT_BACKEND", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.UsesPostgres())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"port", map[string]string{"STOREFRONT_HTTP_PORT": "0"}, "invalid HTTP port"},
		{"catalog backend", map[string]string{"CATALOG_BACKEND": "mysql"}, "CATALOG_BACKEND"},
		{"feed", map[string]string{"CATALOG_CHANGE_FEED": "webhook"}, "CATALOG_CHANGE_FEED"},
		{"listen without postgres", map[string]string{"CATALOG_BACKEND": "memory"}, "requires CATALOG_BACKEND=postgres"},
		{"snapshot backend", map[string]string{"SNAPSHOT_BACKEND": "disk"}, "SNAPSHOT_BACKEND"},
		{"negative delay", map[string]string{"CHECKOUT_SUCCESS_DELAY": "-1s"}, "checkout delays"},
		{"history", map[string]string{"ASSISTANT_MAX_HISTORY": "1"}, "ASSISTANT_MAX_HISTORY"},
		{"rate burst", map[string]string{"ASSISTANT_RATE_BURST": "0"}, "ASSISTANT_RATE_BURST"},
		{"sample rate", map[string]string{"TRACING_SAMPLE_RATE": "2.0"}, "TRACING_SAMPLE_RATE must be between 0.0 and 1.0"},
		{"bad duration", map[string]string{"SNAPSHOT_TTL": "forever"}, "load storefront config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
