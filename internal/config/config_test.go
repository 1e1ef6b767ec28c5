package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "trade", cfg.Mode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(100), cfg.Trading.TickSize)
	assert.Equal(t, int64(50), cfg.Trading.LotSize)
	assert.Equal(t, int64(100), cfg.Trading.PositionLimit)
	assert.Equal(t, 5, cfg.Trading.LookbackWindow)
	assert.Equal(t, 3, cfg.Trading.OrderDistanceFromBest)
	assert.Equal(t, 40, cfg.Trading.TradeMemory)
	assert.InDelta(t, 0.9, cfg.Trading.WallFraction, 1e-9)
	assert.False(t, cfg.Postgres.Enabled)
	assert.False(t, cfg.Redis.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
mode = "replay"
log_level = "debug"

[trading]
lot_size = 20

[replay]
path = "/tmp/session.ndjson"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "replay", cfg.Mode)
	assert.Equal(t, int64(20), cfg.Trading.LotSize)
	// Untouched fields keep their defaults.
	assert.Equal(t, int64(100), cfg.Trading.TickSize)
	assert.Equal(t, 3, cfg.Trading.OrderDistanceFromBest)

	require.NoError(t, cfg.Validate())
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[venue]
url = "ws://file-host:8100/exec"
`)

	t.Setenv("PAIRBOT_VENUE_URL", "ws://env-host:8100/exec")
	t.Setenv("PAIRBOT_VENUE_KEY", "secret")
	t.Setenv("PAIRBOT_TRADING_POSITION_LIMIT", "60")
	t.Setenv("PAIRBOT_REDIS_ENABLED", "true")
	t.Setenv("PAIRBOT_NOTIFY_EVENTS", "fill, error")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ws://env-host:8100/exec", cfg.Venue.URL)
	assert.Equal(t, "secret", cfg.Venue.Key)
	assert.Equal(t, int64(60), cfg.Trading.PositionLimit)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"fill", "error"}, cfg.Notify.Events)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantIn string
	}{
		{"bad mode", func(c *Config) { c.Mode = "backtest" }, "unknown mode"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "unknown log_level"},
		{"empty venue url", func(c *Config) { c.Venue.URL = "" }, "venue: url"},
		{"lot size too small", func(c *Config) { c.Trading.LotSize = 1 }, "lot_size"},
		{"distance out of range", func(c *Config) { c.Trading.OrderDistanceFromBest = 6 }, "order_distance_from_best"},
		{"wall fraction out of range", func(c *Config) { c.Trading.WallFraction = 1 }, "wall_fraction"},
		{"replay without path", func(c *Config) { c.Mode = "replay" }, "replay: path"},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "redis: addr"},
		{"postgres without host", func(c *Config) { c.Postgres.Enabled = true; c.Postgres.Host = "" }, "postgres: host"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantIn)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "backtest"
	cfg.Trading.LotSize = 0
	cfg.Trading.WallFraction = 2

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "lot_size")
	assert.Contains(t, err.Error(), "wall_fraction")
}
