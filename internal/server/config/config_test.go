package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "", c.DatabaseDSN)
	assert.Equal(t, "userauth", c.TokenIssuer)
	assert.Equal(t, 7*24*time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, 10000, c.PasswordIterations)
	assert.Equal(t, 30*time.Second, c.TokenClockLeeway)
	assert.False(t, c.SeedDevUsers)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.WeakSecret(), "default secret must meet the recommended length")
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsWithoutArgs(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"server"}

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "empty secret", mutate: func(c *Config) { c.SecretKey = "" }, wantErr: true},
		{name: "zero validity", mutate: func(c *Config) { c.AccessTokenValidityDuration = 0 }, wantErr: true},
		{name: "zero iterations", mutate: func(c *Config) { c.PasswordIterations = 0 }, wantErr: true},
		{name: "absurd iterations", mutate: func(c *Config) { c.PasswordIterations = 1 << 30 }, wantErr: true},
		{name: "no transports", mutate: func(c *Config) { c.EndpointAddrHTTP, c.EndpointAddrGRPC = "", "" }, wantErr: true},
		{name: "grpc only", mutate: func(c *Config) { c.EndpointAddrHTTP = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}

func TestWeakSecret(t *testing.T) {
	c := Config{SecretKey: "short"}
	assert.True(t, c.WeakSecret())

	c.SecretKey = "0123456789abcdef0123456789abcdef"
	assert.False(t, c.WeakSecret())
}

func TestLoadConfig_DatabaseDoesNotSeedByDefault(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"server", "-d", "postgres://prod", "-s", "a-real-secret-that-is-long-enough-000"}

	c := LoadConfig()
	assert.Equal(t, "postgres://prod", c.DatabaseDSN)
	assert.False(t, c.SeedDevUsers)

	os.Args = []string{"server", "-d", "postgres://dev", "-seed"}
	c = LoadConfig()
	assert.True(t, c.SeedDevUsers)
}
