package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/userauth/internal/client/cli"
	"github.com/dmitrijs2005/userauth/internal/client/config"
	"github.com/dmitrijs2005/userauth/internal/flagx"
)

func main() {

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	err = app.Run(context.Background(), flagx.Positional(os.Args[1:], config.ValueFlags))
	_ = app.Close()

	if err != nil {
		log.Fatalf("%v", err)
	}

}
