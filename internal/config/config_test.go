package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "newsmeme.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, StoreMemory, cfg.Server.Store)
	assert.True(t, cfg.Server.Seed)
	assert.Empty(t, cfg.TransportFailureMessage)
}

func TestLoad(t *testing.T) {
	t.Setenv("NEWSMEME_TEST_PASSWORD", "s3cret")
	path := writeConfig(t, `
base_url: http://news.example.com
user: alice
timeout: 3s
transport_failure_message: Network error
log_level: debug
server:
  addr: ":9000"
  store: redis
  seed: false
  moderators: [mod, admin]
  redis:
    addr: redis:6379
    password: ${NEWSMEME_TEST_PASSWORD}
    db: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://news.example.com", cfg.BaseURL)
	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "Network error", cfg.TransportFailureMessage)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, StoreRedis, cfg.Server.Store)
	assert.False(t, cfg.Server.Seed)
	assert.Equal(t, []string{"mod", "admin"}, cfg.Server.Moderators)
	assert.Equal(t, "redis:6379", cfg.Server.Redis.Addr)
	assert.Equal(t, "s3cret", cfg.Server.Redis.Password)
	assert.Equal(t, 2, cfg.Server.Redis.DB)
	assert.Equal(t, "newsmeme:", cfg.Server.Redis.Prefix)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "user: bob\n"))
	require.NoError(t, err)

	assert.Equal(t, "bob", cfg.User)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.True(t, cfg.Server.Seed)
	assert.Equal(t, "newsmeme.db", cfg.Server.SQLite.Path)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeConfig(t, "server: [not, a, map]\n"))
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = Load(writeConfig(t, "server:\n  store: postgres\n"))
	assert.ErrorContains(t, err, "unknown backend")
}
