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

	assert.Equal(t, "data/taichung_prices.csv", cfg.Data.CSVPath)
	assert.Equal(t, "taichung", cfg.Data.City)
	assert.Equal(t, 24, cfg.Data.CacheTTLHours)
	assert.Equal(t, 24*time.Hour, cfg.Data.CacheTTL())
	assert.Equal(t, 5, cfg.Data.WindowYears)
	assert.False(t, cfg.Data.AutoFetch)
	assert.Equal(t, 7, cfg.Fetch.CacheDays)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LANDPRICE_DATA_CACHE_TTL_HOURS", "48")
	t.Setenv("LANDPRICE_DATA_CSV_PATH", "/srv/data/prices.csv")
	t.Setenv("LANDPRICE_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 48, cfg.Data.CacheTTLHours)
	assert.Equal(t, "/srv/data/prices.csv", cfg.Data.CSVPath)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "shouting", Format: "json"}))
}
