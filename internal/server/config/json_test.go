package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"endpoint_addr_http":             "www.example:8000",
		"endpoint_addr_grpc":             "www.example:9000",
		"database_dsn":                   "postgres://db",
		"secret_key":                     "my_secret_key",
		"token_issuer":                   "issuer-x",
		"access_token_validity_duration": "24h",
		"token_clock_leeway":             "5s",
		"password_iterations":            50000,
		"seed_dev_users":                 false,
		"log_level":                      "warn",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		parseJson(cfg, []string{"-config", full})

		assert.Equal(t, "www.example:8000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, "issuer-x", cfg.TokenIssuer)
		assert.Equal(t, 24*time.Hour, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 5*time.Second, cfg.TokenClockLeeway)
		assert.Equal(t, 50000, cfg.PasswordIterations)
		assert.False(t, cfg.SeedDevUsers)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"secret_key": "only-this"})

		var cfg Config
		cfg.LoadDefaults()
		parseJson(&cfg, []string{"-c", partial})

		assert.Equal(t, "only-this", cfg.SecretKey)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, 7*24*time.Hour, cfg.AccessTokenValidityDuration)
		assert.False(t, cfg.SeedDevUsers)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		var cfg, want Config
		cfg.LoadDefaults()
		want.LoadDefaults()

		parseJson(&cfg, []string{"-s", "x"})
		assert.Equal(t, want, cfg)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Panics(t, func() { parseJson(&Config{}, []string{"-config", bad}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		require.Panics(t, func() { parseJson(&Config{}, []string{"-config", filepath.Join(dir, "nope.json")}) })
	})
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "cfg.json", map[string]any{"secret_key": "from-json", "log_level": "debug"})
	os.Args = []string{"server", "-c", path, "-s", "from-flag"}

	cfg := LoadConfig()
	assert.Equal(t, "from-flag", cfg.SecretKey)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func Test_parseJson_SubMinuteValiditySurvivesFlags(t *testing.T) {
	path := writeTempJSON(t, "", "short.json", map[string]any{"access_token_validity_duration": "90s"})
	args := []string{"-c", path, "-s", "k"}

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg, args)
	parseFlags(&cfg, args)

	assert.Equal(t, 90*time.Second, cfg.AccessTokenValidityDuration)
	assert.NoError(t, cfg.Validate())

	parseFlags(&cfg, []string{"-t", "5"})
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
}
