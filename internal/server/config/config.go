// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/dmitrijs2005/userauth/internal/cryptox"
)

// MinSecretKeyLength is the recommended minimum signing secret length in bytes.
const MinSecretKeyLength = 32

// Config holds runtime settings for the server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses; an empty value disables that transport.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty means the in-memory directory.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Do not use the default in prod.
//   - TokenIssuer: value of the iss claim.
//   - AccessTokenValidityDuration: lifetime of issued tokens.
//   - TokenClockLeeway: tolerated clock skew when validating tokens.
//   - PasswordIterations: PBKDF2 work factor for new hashes.
//   - SeedDevUsers: insert the development users into the PostgreSQL directory.
//     The in-memory directory always holds them; Postgres only gets them on request.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrGRPC            string
	DatabaseDSN                 string
	SecretKey                   string
	TokenIssuer                 string
	AccessTokenValidityDuration time.Duration
	TokenClockLeeway            time.Duration
	PasswordIterations          int
	SeedDevUsers                bool
	LogLevel                    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey in particular must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = "dev-only-secret-key-change-me-0123456789"
	c.TokenIssuer = "userauth"
	c.AccessTokenValidityDuration = 7 * 24 * time.Hour
	c.TokenClockLeeway = 30 * time.Second
	c.PasswordIterations = cryptox.DefaultIterations
	c.SeedDevUsers = false
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("config: secret key is empty")
	}
	if c.AccessTokenValidityDuration <= 0 {
		return errors.New("config: access token validity must be positive")
	}
	if c.TokenClockLeeway < 0 {
		return errors.New("config: token clock leeway must not be negative")
	}
	if c.PasswordIterations <= 0 || c.PasswordIterations > cryptox.MaxIterations {
		return errors.New("config: password iterations out of range")
	}
	if c.EndpointAddrHTTP == "" && c.EndpointAddrGRPC == "" {
		return errors.New("config: no transport enabled")
	}
	return nil
}

// WeakSecret reports a secret shorter than MinSecretKeyLength.
func (c *Config) WeakSecret() bool {
	return len(c.SecretKey) < MinSecretKeyLength
}
