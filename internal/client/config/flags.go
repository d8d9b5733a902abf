package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/userauth/internal/flagx"
)

// ValueFlags lists every flag that takes a separate value, config file
// flags included. Anything else on the command line is a positional
// argument.
var ValueFlags = []string{"-a", "-u", "-t", "-c", "-config", "--config"}

// parseFlags populates Config fields from command-line flags.
//
//	-a string   server gRPC address
//	-u string   username
//	-t int      request timeout, seconds
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-u", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerEndpointAddr, "a", config.ServerEndpointAddr, "server gRPC address")
	fs.StringVar(&config.Username, "u", config.Username, "username")
	timeout := fs.Int("t", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RequestTimeout = time.Duration(*timeout) * time.Second
}
