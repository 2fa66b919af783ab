package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: test-secret
  encryption_secret: test-encryption
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL())
	assert.Equal(t, 5.00, cfg.Universe.MaxPrice)
	assert.Equal(t, int64(10000), cfg.Universe.MinVolume)
	assert.Equal(t, time.Minute, cfg.PollInterval())
	assert.Equal(t, 10000.0, cfg.Portfolio.CashBalance)
	assert.Equal(t, 0.01, cfg.Portfolio.DefaultRiskPct)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
auth:
  jwt_secret: test-secret
  encryption_secret: test-encryption
  access_token_minutes: 30
universe:
  max_price: 3.50
poller:
  interval: 5m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL())
	assert.Equal(t, 3.50, cfg.Universe.MaxPrice)
	assert.Equal(t, 5*time.Minute, cfg.PollInterval())
}

func TestEnvOverridesSecrets(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: from-file
  encryption_secret: test-encryption
`)

	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestValidateMissingSecrets(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestValidateBadInterval(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: test-secret
  encryption_secret: test-encryption
poller:
  interval: often
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidatePollerNeedsAPIKey(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: test-secret
  encryption_secret: test-encryption
poller:
  enabled: true
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "polygon.api_key")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
