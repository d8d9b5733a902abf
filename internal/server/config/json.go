package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/userauth/internal/flagx"
	"github.com/dmitrijs2005/userauth/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "168h" strings and integer nanoseconds via timex.Duration. Pointer fields
// distinguish "absent" from the zero value.
type JsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	TokenIssuer                 *string         `json:"token_issuer"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	TokenClockLeeway            *timex.Duration `json:"token_clock_leeway"`
	PasswordIterations          *int            `json:"password_iterations"`
	SeedDevUsers                *bool           `json:"seed_dev_users"`
	LogLevel                    *string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config in args.
// Without that flag nothing happens. An unreadable or invalid file panics,
// as do flag errors, so misconfiguration stops the process at startup.
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

	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.TokenIssuer, c.TokenIssuer)
	setIf(&config.PasswordIterations, c.PasswordIterations)
	setIf(&config.SeedDevUsers, c.SeedDevUsers)
	setIf(&config.LogLevel, c.LogLevel)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.TokenClockLeeway != nil {
		config.TokenClockLeeway = c.TokenClockLeeway.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
