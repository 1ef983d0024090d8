package server

import (
	"log/slog"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/config"
	"github.com/preston-bernstein/club-games-service/internal/metrics"
	"github.com/preston-bernstein/club-games-service/internal/providers"
)

// providerFactory assembles the events API with the shared retry wrapper.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config, loc *time.Location) providers.EventAPI {
	base := selectProvider(cfg, loc, f.logger)
	return f.wrap(cfg, base)
}

// wrap decorates an already constructed API with retries.
func (f providerFactory) wrap(cfg config.Config, api providers.EventAPI) providers.EventAPI {
	return providers.NewRetrying(api, f.logger, f.metrics, normalizeProviderName(cfg.Provider, api), retryPolicy(cfg.Retry))
}

func retryPolicy(cfg config.RetryConfig) providers.RetryPolicy {
	return providers.RetryPolicy{
		MaxAttempts:     cfg.MaxAttempts,
		InitialInterval: cfg.InitialInterval,
	}
}
