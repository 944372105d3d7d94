package main

import (
	"context"
	"log"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
