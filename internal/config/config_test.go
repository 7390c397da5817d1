package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearBootstrapEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STOMP_CONFIG_FILE", "")
	t.Setenv("STOMP_CONFIG_CONTENT", "")
	t.Setenv("STOMP_CONFIG_FORMAT", "")
}

func TestLoadDefaults(t *testing.T) {
	clearBootstrapEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:61613", cfg.Broker.Address)
	assert.False(t, cfg.Broker.Receipts)
	assert.Equal(t, 1<<20, cfg.Broker.MaxBodySize)
	assert.Equal(t, 5, cfg.Broker.DialAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Broker.DialBackoff)
	assert.Equal(t, "q", cfg.Demo.Queue)
	assert.Equal(t, 3000, cfg.Demo.Count)
	assert.Equal(t, "127.0.0.1:12321", cfg.Echo.Listen)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadGeneratesSubscriptionID(t *testing.T) {
	clearBootstrapEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	_, err = uuid.Parse(cfg.Demo.SubscriptionID)
	assert.NoError(t, err)
}

func TestLoadFileYAMLWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	yaml := "" +
		"broker:\n" +
		"  address: localhost:61614\n" +
		"  receipts: true\n" +
		"  dial_backoff: 2s\n" +
		"demo:\n" +
		"  queue: /queue/fromfile\n" +
		"  count: 10\n" +
		"  subscription_id: sub-0\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o600))

	clearBootstrapEnv(t)
	t.Setenv("STOMP_CONFIG_FILE", cfgPath)
	t.Setenv("STOMP_DEMO__QUEUE", "/queue/fromenv")
	t.Setenv("STOMP_BROKER__DIAL_ATTEMPTS", "9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:61614", cfg.Broker.Address)
	assert.True(t, cfg.Broker.Receipts)
	assert.Equal(t, 2*time.Second, cfg.Broker.DialBackoff)
	assert.Equal(t, 9, cfg.Broker.DialAttempts)
	assert.Equal(t, "/queue/fromenv", cfg.Demo.Queue)
	assert.Equal(t, 10, cfg.Demo.Count)
	assert.Equal(t, "sub-0", cfg.Demo.SubscriptionID)
}

func TestLoadFileJSON(t *testing.T) {
	clearBootstrapEnv(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"demo":{"count":1},"log":{"level":"debug"}}`), 0o600))

	cfg, err := LoadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Demo.Count)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestLoadFileExplicitZeroKeepsValue(t *testing.T) {
	clearBootstrapEnv(t)

	cfg, err := LoadContent("demo:\n  count: 0\n", "yaml")
	require.NoError(t, err)
	assert.Zero(t, cfg.Demo.Count)
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("x = 1"), 0o600))

	_, err := LoadFile(cfgPath)
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "toml", unsupported.Format)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadContentDetectsFormat(t *testing.T) {
	clearBootstrapEnv(t)

	cfg, err := LoadContent(`  {"echo":{"listen":"0.0.0.0:7000"}}`, "")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:7000", cfg.Echo.Listen)

	cfg, err = LoadContent("echo:\n  listen: 0.0.0.0:7001\n", "")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:7001", cfg.Echo.Listen)
}

func TestLoadContentFromEnv(t *testing.T) {
	clearBootstrapEnv(t)
	t.Setenv("STOMP_CONFIG_CONTENT", `{"demo":{"queue":"/queue/raw"}}`)
	t.Setenv("STOMP_CONFIG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/queue/raw", cfg.Demo.Queue)
}

func TestLoadValidation(t *testing.T) {
	clearBootstrapEnv(t)

	cases := map[string]string{
		"negative count":    "demo:\n  count: -1\n",
		"bad address":       "broker:\n  address: not-an-address\n",
		"no dial attempts":  "broker:\n  dial_attempts: 0\n",
		"unknown log level": "log:\n  level: loud\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadContent(content, "yaml")
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvConfigBadFormat(t *testing.T) {
	clearBootstrapEnv(t)
	t.Setenv("STOMP_CONFIG_CONTENT", "demo: {}")
	t.Setenv("STOMP_CONFIG_FORMAT", "ini")

	_, err := Load()
	assert.Error(t, err)
}

func TestLogConfigSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "warn"}.SlogLevel())
	assert.Equal(t, slog.LevelError, LogConfig{Level: "ERROR"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "nope"}.SlogLevel())
}
