package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/herbscan/internal/client/cli"
	"github.com/dmitrijs2005/herbscan/internal/client/config"
	"github.com/dmitrijs2005/herbscan/internal/logging"
)

func main() {

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		log.Fatalf("%v", err)
	}
	logger := logging.New(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "client stopped", "error", err)
		os.Exit(1)
	}
}
