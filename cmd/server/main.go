package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/collabsync/internal/logging"
	"github.com/dmitrijs2005/collabsync/internal/server"
	"github.com/dmitrijs2005/collabsync/internal/server/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("%v", err)
		return 1
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		return 1
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		return 1
	}
	return 0
}
