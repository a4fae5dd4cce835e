package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"supertonic-fetch/internal/app"
	"supertonic-fetch/internal/logger"
)

func main() {
	log := logger.NewColoredLogger()

	application, err := app.New(log)
	if err != nil {
		log.Error("Failed to initialise asset fetcher: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Received exit signal, stopping after the current download...")
		cancel()
	}()

	if err := application.Run(ctx); err != nil {
		log.Error("Asset fetch failed to run: %v", err)
		os.Exit(1)
	}

	log.Info("Supertonic asset fetch finished")
}
