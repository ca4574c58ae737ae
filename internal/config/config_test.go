package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturaval/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 20, cfg.Engine.LineItemSlots)
	assert.InDelta(t, 0.6, cfg.Engine.SimilarityCutoff, 1e-9)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, time.Hour, cfg.Store.TTL)
	assert.Equal(t, 120, cfg.Extractor.TimeoutSecs)
	assert.False(t, cfg.Extractor.Enabled())
	assert.Empty(t, cfg.S3.Bucket)
	assert.Equal(t, int64(20*1024*1024), cfg.Upload.MaxBytes())
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FACTURAVAL_ENGINE_LINE_ITEM_SLOTS", "5")
	t.Setenv("FACTURAVAL_ENGINE_SIMILARITY_CUTOFF", "0.75")
	t.Setenv("FACTURAVAL_STORE_DRIVER", "Postgres")
	t.Setenv("FACTURAVAL_STORE_TTL", "30m")
	t.Setenv("FACTURAVAL_EXTRACTOR_PROJECT_ID", "proj")
	t.Setenv("FACTURAVAL_EXTRACTOR_PROCESSOR_ID", "abc123")
	t.Setenv("FACTURAVAL_CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Engine.LineItemSlots)
	assert.InDelta(t, 0.75, cfg.Engine.SimilarityCutoff, 1e-9)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Store.TTL)
	assert.True(t, cfg.Extractor.Enabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9000")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Port)

	t.Setenv("FACTURAVAL_SERVER_PORT", ":7000")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Port)
}

func TestLoad_SimilarityCutoffOfOne(t *testing.T) {
	t.Setenv("FACTURAVAL_ENGINE_SIMILARITY_CUTOFF", "1")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cfg.Engine.SimilarityCutoff, 1e-9)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("store driver", func(t *testing.T) {
		t.Setenv("FACTURAVAL_STORE_DRIVER", "redis")
		_, err := config.Load()
		assert.Error(t, err)
	})
	t.Run("line item slots", func(t *testing.T) {
		t.Setenv("FACTURAVAL_ENGINE_LINE_ITEM_SLOTS", "0")
		_, err := config.Load()
		assert.Error(t, err)
	})
	for _, cutoff := range []string{"0", "-0.5", "1.5"} {
		t.Run("similarity cutoff "+cutoff, func(t *testing.T) {
			t.Setenv("FACTURAVAL_ENGINE_SIMILARITY_CUTOFF", cutoff)
			_, err := config.Load()
			assert.ErrorContains(t, err, "engine.similarity_cutoff")
		})
	}
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=require", db.DSN())
}
