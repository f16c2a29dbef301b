package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_BoltDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "bolt")
	t.Setenv("BOLT_PATH", "/tmp/ledger.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("RATE_LIMIT", "not-a-rate")
	t.Setenv("SHUTDOWN_TIMEOUT", "banana")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, StorageBolt, cfg.StorageDriver)
	assert.Equal(t, "/tmp/ledger.db", cfg.BoltPath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, defaultRateLimit, cfg.RateLimit)
	assert.Equal(t, defaultShutdownTimeout, cfg.ShutdownTimeout)
}

func TestLoadConfig_PostgresNeedsURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("PGSQL_URL", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "bolt")
	t.Setenv("BOLT_PATH", "x.db")
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_ShutdownTimeout(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "bolt")
	t.Setenv("BOLT_PATH", "x.db")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}
