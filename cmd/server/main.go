package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sinfiltro/feedserver/internal/app"
	"github.com/sinfiltro/feedserver/internal/config"
	"github.com/sinfiltro/feedserver/internal/logging"
)

func main() {
	// Local development keeps MONGO_URL etc. in a .env file.
	_ = godotenv.Load()

	cfg := config.Load()

	a, err := app.New(cfg)
	if err != nil {
		logging.New(logging.LevelError).Error("Failed to initialize application", logging.WithField("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		a.Logger.Info("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := a.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("Shutdown error", logging.WithField("error", err.Error()))
		}
		cancel()
	}()

	if err := a.Run(ctx); err != nil && err != http.ErrServerClosed {
		a.Logger.Error("HTTP server error", logging.WithField("error", err.Error()))
		os.Exit(1)
	}
}
