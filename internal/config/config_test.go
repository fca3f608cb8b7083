package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mql.csv", cfg.Source.Path)
	assert.Equal(t, "snapshots.db", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 50000.0, cfg.Alerts.MinPipelineValue)
	assert.Equal(t, 50.0, cfg.Alerts.MaxOwnerShare)
	assert.Equal(t, 10, cfg.Alerts.MinRecentDeals)
	assert.Equal(t, 30, cfg.Alerts.ActivityWindowDays)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PIPELINE_SOURCE_PATH", "exports/q2.xlsx")
	t.Setenv("PIPELINE_SERVER_PORT", "9999")
	t.Setenv("PIPELINE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "exports/q2.xlsx", cfg.Source.Path)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.Error(t, InitLogger(LogConfig{Level: "shout", Format: "json"}))
}
