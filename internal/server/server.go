package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/config"
	"github.com/preston-bernstein/club-games-service/internal/gamedata"
	httpserver "github.com/preston-bernstein/club-games-service/internal/http"
	"github.com/preston-bernstein/club-games-service/internal/http/handlers"
	"github.com/preston-bernstein/club-games-service/internal/http/middleware"
	"github.com/preston-bernstein/club-games-service/internal/kvstore"
	"github.com/preston-bernstein/club-games-service/internal/logging"
	"github.com/preston-bernstein/club-games-service/internal/metrics"
	"github.com/preston-bernstein/club-games-service/internal/providers"
	"github.com/preston-bernstein/club-games-service/internal/teamstore"
	"github.com/preston-bernstein/club-games-service/internal/timeutil"
	"github.com/preston-bernstein/club-games-service/internal/warmer"
)

var (
	metricsSetup = metrics.Setup
	openStore    = kvstore.Open
)

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         kvstore.Store
	games         *gamedata.Service
	httpServer    httpServer
	metricsServer httpServer
	warmer        Warmer
	metricsStop   func(context.Context) error
}

// New constructs a server with the configured provider, store and warmer.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(ctx, cfg, logger, nil, nil)
}

// newServerWithMetrics wires the full stack. A non-nil api replaces the
// configured provider and a non-nil recorder skips telemetry setup.
func newServerWithMetrics(ctx context.Context, cfg config.Config, logger *slog.Logger, api providers.EventAPI, recorder *metrics.Recorder) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	loc := timeutil.LoadLocation(cfg.Games.Timezone)
	factory := newProviderFactory(logger, recorder)
	if api == nil {
		api = factory.build(cfg, loc)
	} else {
		api = factory.wrap(cfg, api)
	}

	kv, err := openStore(ctx, storeConfig(cfg.Store))
	if err != nil {
		stopMetrics(metricsShutdown)
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	refs := gamedata.NewReferenceLoader(api, kv, teamstore.New(kv), logger, recorder, cfg.Games.ReferenceMaxAge)
	svc, err := gamedata.NewService(serviceConfig(cfg.Games, loc), api, refs, logger, recorder)
	if err != nil {
		_ = kv.Close()
		stopMetrics(metricsShutdown)
		return nil, fmt.Errorf("build games service: %w", err)
	}

	var w Warmer
	if cfg.Warm.Enabled {
		w = warmer.New(svc, logger, recorder, cfg.Warm.Interval)
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         kv,
		games:         svc,
		httpServer:    buildHTTPServer(cfg, svc, logger, recorder, w),
		metricsServer: metricsSrv,
		warmer:        w,
		metricsStop:   metricsShutdown,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *gamedata.Service, kv kvstore.Store, httpSrv httpServer, w Warmer) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		store:      kv,
		games:      svc,
		httpServer: httpSrv,
		warmer:     w,
	}
}

func storeConfig(cfg config.StoreConfig) kvstore.Config {
	return kvstore.Config{
		Backend: cfg.Backend,
		FSDir:   cfg.FSDir,
		Redis: kvstore.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		},
		SQLitePath: cfg.SQLitePath,
	}
}

func serviceConfig(cfg config.GamesConfig, loc *time.Location) gamedata.Config {
	return gamedata.Config{
		PrimaryTeamID:    cfg.PrimaryTeamID,
		Location:         loc,
		GamesTTL:         cfg.GamesTTL,
		DetailTTL:        cfg.DetailTTL,
		MasterTTL:        cfg.MasterTTL,
		GamesCacheSize:   cfg.GamesCacheSize,
		DetailCacheSize:  cfg.DetailCacheSize,
		MasterWindowDays: cfg.MasterWindowDays,
	}
}

func buildHTTPServer(cfg config.Config, svc *gamedata.Service, logger *slog.Logger, recorder *metrics.Recorder, w Warmer) httpServer {
	var statusFn func() warmer.Status
	if w != nil {
		statusFn = w.Status
	}

	handler := handlers.NewHandler(svc, logger, statusFn)
	var admin *handlers.AdminHandler
	if cfg.AdminToken != "" {
		admin = handlers.NewAdminHandler(svc, cfg.AdminToken, logger)
	}
	router := httpserver.NewRouter(handler, admin)

	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	return newHTTPServer(cfg.Port, wrapped)
}

// Run starts the warmer and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.warmer != nil {
		s.warmer.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if s.warmer != nil {
		if err := s.warmer.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop cache warmer", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logging.Warn(s.logger, "kv store close failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = newHTTPServer(recCfg.Port, handler)
	}

	return rec, metricsSrv, shutdown
}

func stopMetrics(shutdown func(context.Context) error) {
	if shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = shutdown(ctx)
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// Games exposes the games data service.
func (s *Server) Games() *gamedata.Service {
	return s.games
}
