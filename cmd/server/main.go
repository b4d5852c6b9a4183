package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/bookmarker/internal/server"
	"github.com/dmitrijs2005/bookmarker/internal/server/config"
)

func main() {
	os.Exit(run())
}

func run() int {

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Printf("config error: %v", err)
		return 1
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}

	if err := app.Run(ctx); err != nil {
		return 1
	}

	return 0
}
