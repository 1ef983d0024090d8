package server

import (
	"log/slog"
	"strings"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/config"
	"github.com/preston-bernstein/club-games-service/internal/logging"
	"github.com/preston-bernstein/club-games-service/internal/providers"
	"github.com/preston-bernstein/club-games-service/internal/providers/clubapi"
	"github.com/preston-bernstein/club-games-service/internal/providers/fixture"
)

const (
	providerFixture = "fixture"
	providerClubAPI = "clubapi"
)

func selectProvider(cfg config.Config, loc *time.Location, logger *slog.Logger) providers.EventAPI {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case providerFixture, "":
		return fixture.New(loc)
	case providerClubAPI, "club":
		return clubapi.NewClient(clubapi.Config{
			BaseURL: cfg.ClubAPI.BaseURL,
			APIKey:  cfg.ClubAPI.APIKey,
			Timeout: cfg.ClubAPI.Timeout,
		})
	default:
		logging.Warn(logger, "unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		return fixture.New(loc)
	}
}
