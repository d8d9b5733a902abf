// Package config handles configuration for the command-line client:
// defaults, an optional JSON file and command-line flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the gRPC endpoint.
//   - Username: login name; prompted for when empty.
//   - RequestTimeout: deadline applied to every call.
type Config struct {
	ServerEndpointAddr string
	Username           string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.Username = ""
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
