package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	require.Equal(t, "development", config.Environment)
	require.Equal(t, 8080, config.Server.Port)
	require.Equal(t, "data/ledger", config.Storage.Path)
	require.Empty(t, config.Lock.RedisAddr)
	require.Equal(t, 24*time.Hour, config.Sweep.GetInterval())
	require.False(t, config.IsProduction())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledgerd.toml")
	content := `
environment = "production"

[server]
port = 9090
rate_limit = 25.0

[lock]
redis_addr = "localhost:6379"

[sweep]
interval = "1h"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "production", config.Environment)
	require.True(t, config.IsProduction())
	require.Equal(t, 9090, config.Server.Port)
	require.Equal(t, 25.0, config.Server.RateLimit)
	require.Equal(t, "localhost:6379", config.Lock.RedisAddr)
	require.Equal(t, time.Hour, config.Sweep.GetInterval())

	// Unset fields keep their defaults
	require.Equal(t, "0.0.0.0", config.Server.Host)
	require.Equal(t, "data/ledger", config.Storage.Path)
}

func TestLoadConfigSkipsMissingFiles(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"), "")
	require.NoError(t, err)
	require.Equal(t, 8080, config.Server.Port)
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("environment = [unclosed"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LEDGERD_ENV", "production")
	t.Setenv("LEDGERD_PORT", "7070")
	t.Setenv("LEDGERD_REDIS_ADDR", "redis:6379")
	t.Setenv("LEDGERD_SWEEP_INTERVAL", "30m")
	t.Setenv("LEDGERD_DATA_PATH", "/var/lib/ledgerd")

	config, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "production", config.Environment)
	require.Equal(t, 7070, config.Server.Port)
	require.Equal(t, "redis:6379", config.Lock.RedisAddr)
	require.Equal(t, 30*time.Minute, config.Sweep.GetInterval())
	require.Equal(t, filepath.Join("/var/lib/ledgerd", "ledger"), config.Storage.Path)
}

func TestSweepIntervalFallsBackOnGarbage(t *testing.T) {
	sweep := SweepConfig{Interval: "whenever"}
	require.Equal(t, 24*time.Hour, sweep.GetInterval())

	sweep = SweepConfig{Interval: "-5m"}
	require.Equal(t, 24*time.Hour, sweep.GetInterval())
}
