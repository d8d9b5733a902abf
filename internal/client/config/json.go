package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/userauth/internal/flagx"
	"github.com/dmitrijs2005/userauth/internal/timex"
)

type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	Username           *string         `json:"username"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
}

func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFileFlag(args)
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerEndpointAddr != nil {
		config.ServerEndpointAddr = *c.ServerEndpointAddr
	}
	if c.Username != nil {
		config.Username = *c.Username
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
}
