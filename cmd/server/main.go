package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/club-games-service/internal/config"
	"github.com/preston-bernstein/club-games-service/internal/logging"
	"github.com/preston-bernstein/club-games-service/internal/server"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	cfg, err := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.Metrics.ServiceName,
		Version: appVersion,
	})
	if err != nil {
		logging.Error(logger, "config load failed", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, stop, cfg, logger); err != nil {
		logging.Error(logger, "server setup failed", err)
		stop()
		os.Exit(1)
	}
}

// run blocks until ctx is cancelled or the HTTP listener fails.
func run(ctx context.Context, stop context.CancelFunc, cfg config.Config, logger *slog.Logger) error {
	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	srv.Run(ctx, stop)
	return nil
}
