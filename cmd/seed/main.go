// Command seed runs migrations and a single directory import, then exits.
// It accepts the same configuration as the server.
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

	res, err := app.Seed(ctx)
	if err != nil {
		logger.Error(ctx, "seed failed", "error", err)
		return 1
	}

	logger.Info(ctx, "seed completed", "imported", res.Imported, "ignored", res.Ignored)
	return 0
}
