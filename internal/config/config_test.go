package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DASHBOARD_DATABASE_URL", "postgres://dashboard@localhost/dashboard?sslmode=disable")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 12*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "dashboard", cfg.Metrics.Namespace)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowOrigins)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, uint64(42), cfg.Seed.Seed)
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  request_timeout: 5s
database:
  url: postgres://from-file/dashboard
jwt:
  secret: file-secret
log:
  level: debug
rate_limit:
  rps: 5
  burst: 10
`)
	secret := strings.Repeat("s", MinJWTSecretLen)
	t.Setenv("DASHBOARD_DATABASE_URL", "")
	t.Setenv("DASHBOARD_JWT_SECRET", secret)
	t.Setenv("DASHBOARD_LOG_LEVEL", "warn")
	t.Setenv("DASHBOARD_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "postgres://from-file/dashboard", cfg.Database.URL)
	assert.Equal(t, secret, cfg.JWT.Secret)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.NoError(t, cfg.ValidateServe())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DASHBOARD_DATABASE_URL", "")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	t.Setenv("DASHBOARD_DATABASE_URL", "postgres://localhost/dashboard")
	path := writeConfig(t, "server: [port")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateServeRejectsShortSecret(t *testing.T) {
	cfg := &Config{JWT: JWTConfig{Secret: "too-short"}}
	assert.ErrorIs(t, cfg.ValidateServe(), ErrWeakJWTSecret)
}
