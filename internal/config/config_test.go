package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PATHFINDER_JWT_SECRET", "access")
	t.Setenv("PATHFINDER_JWT_REFRESH_SECRET", "refresh")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Pathfinder API", cfg.AppName)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, 5*time.Minute, cfg.RecommendationCacheTTL)
	require.Equal(t, 5*time.Minute, cfg.AnalyticsCacheTTL)
	require.Equal(t, 10, cfg.SubmitRateLimit)
	require.Equal(t, time.Minute, cfg.SubmitRateWindow)
	require.Equal(t, int64(5*1024*1024), cfg.CatalogImportMaxBytes)
	require.False(t, cfg.SeedEnabled)
	require.Equal(t, "pathfinder", cfg.EventChannel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PATHFINDER_JWT_SECRET", "access")
	t.Setenv("PATHFINDER_JWT_REFRESH_SECRET", "refresh")
	t.Setenv("PATHFINDER_APP_PORT", ":9090")
	t.Setenv("PATHFINDER_RECOMMENDATION_CACHE_TTL", "90s")
	t.Setenv("PATHFINDER_SEED_ENABLED", "true")
	t.Setenv("PATHFINDER_SEED_TOKEN", "seed-secret")
	t.Setenv("PATHFINDER_CATALOG_IMPORT_MAX_MB", "2")
	t.Setenv("PATHFINDER_NATS_URL", "nats://localhost:4222")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, 90*time.Second, cfg.RecommendationCacheTTL)
	require.True(t, cfg.SeedEnabled)
	require.Equal(t, "seed-secret", cfg.SeedToken)
	require.Equal(t, int64(2*1024*1024), cfg.CatalogImportMaxBytes)
	require.Equal(t, "nats://localhost:4222", cfg.NATSURL)
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	t.Setenv("PATHFINDER_JWT_SECRET", "")
	t.Setenv("PATHFINDER_JWT_REFRESH_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRequiresSeedToken(t *testing.T) {
	t.Setenv("PATHFINDER_JWT_SECRET", "access")
	t.Setenv("PATHFINDER_JWT_REFRESH_SECRET", "refresh")
	t.Setenv("PATHFINDER_SEED_ENABLED", "true")
	t.Setenv("PATHFINDER_SEED_TOKEN", "  ")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("PATHFINDER_JWT_SECRET", "access")
	t.Setenv("PATHFINDER_JWT_REFRESH_SECRET", "refresh")
	t.Setenv("PATHFINDER_RECOMMENDATION_CACHE_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
}
