package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8577", cfg.Addr)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "", cfg.DatabaseDSN)
	assert.Equal(t, "authgate", cfg.Issuer)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("AUTHGATE_ADDR", ":9000")
	t.Setenv("AUTHGATE_SIGNING_KEY", "env-secret")
	t.Setenv("AUTHGATE_TOKEN_TTL", "30m")
	t.Setenv("AUTHGATE_BCRYPT_COST", "12")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "env-secret", cfg.SigningKey)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestParseEnv_IgnoresUnparseableValues(t *testing.T) {
	t.Setenv("AUTHGATE_TOKEN_TTL", "not-a-duration")
	t.Setenv("AUTHGATE_BCRYPT_COST", "not-a-number")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 0, cfg.BcryptCost)
}

func TestParseJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"addr":":9100","signing_key":"file-secret","token_ttl":"15m","bcrypt_cost":11}`,
	), 0o600))
	t.Setenv("AUTHGATE_CONFIG", path)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)

	assert.Equal(t, ":9100", cfg.Addr)
	assert.Equal(t, "file-secret", cfg.SigningKey)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 11, cfg.BcryptCost)
	// untouched fields keep their defaults
	assert.Equal(t, "authgate", cfg.Issuer)
}

func TestParseJSON_MissingFileIsFatal(t *testing.T) {
	t.Setenv("AUTHGATE_CONFIG", filepath.Join(t.TempDir(), "nope.json"))

	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Panics(t, func() { parseJSON(cfg) })
}
