package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/orgball2608/reddit-reader-bot/internal/app"
	"github.com/orgball2608/reddit-reader-bot/pkg/logger"
	"go.uber.org/fx"
)

func main() {
	log := logger.New(logger.Opts{Env: os.Getenv("APP_ENV")})

	bot := fx.New(
		fx.Logger(log),
		app.Module,
	)

	if err := bot.Start(context.Background()); err != nil {
		log.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	if err := bot.Stop(context.Background()); err != nil {
		log.Error("Failed to stop application", "error", err)
		os.Exit(1)
	}
}
