package gamedata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/domain/games"
	"github.com/preston-bernstein/club-games-service/internal/logging"
	"github.com/preston-bernstein/club-games-service/internal/metrics"
	"github.com/preston-bernstein/club-games-service/internal/providers"
)

const (
	DefaultGamesTTL         = 5 * time.Minute
	DefaultDetailTTL        = 10 * time.Minute
	DefaultMasterTTL        = 5 * time.Minute
	DefaultGamesCacheSize   = 64
	DefaultDetailCacheSize  = 256
	DefaultMasterWindowDays = 137
	DefaultFutureLimit      = 5
)

// Config tunes a Service. Zero values take the defaults above.
type Config struct {
	PrimaryTeamID    string
	Location         *time.Location
	GamesTTL         time.Duration
	DetailTTL        time.Duration
	MasterTTL        time.Duration
	GamesCacheSize   int
	DetailCacheSize  int
	MasterWindowDays int
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.GamesTTL <= 0 {
		c.GamesTTL = DefaultGamesTTL
	}
	if c.DetailTTL <= 0 {
		c.DetailTTL = DefaultDetailTTL
	}
	if c.MasterTTL <= 0 {
		c.MasterTTL = DefaultMasterTTL
	}
	if c.GamesCacheSize <= 0 {
		c.GamesCacheSize = DefaultGamesCacheSize
	}
	if c.DetailCacheSize <= 0 {
		c.DetailCacheSize = DefaultDetailCacheSize
	}
	if c.MasterWindowDays <= 0 {
		c.MasterWindowDays = DefaultMasterWindowDays
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Service is the games data layer: query cache with request deduplication,
// detail cache with promotion, and the master upcoming-games cache. Each
// instance owns its caches.
//
// Returned games and slices are shared with the caches and must be treated
// as read-only.
type Service struct {
	api       providers.EventAPI
	refs      *ReferenceLoader
	assembler *Assembler
	logger    *slog.Logger
	recorder  *metrics.Recorder
	cfg       Config
	now       func() time.Time

	games       *ttlCache[[]games.Game]
	details     *ttlCache[*games.Game]
	gamesDedup  *Deduplicator[[]games.Game]
	detailDedup *Deduplicator[*games.Game]
	master      masterCache
}

// NewService wires a service over api and refs.
func NewService(cfg Config, api providers.EventAPI, refs *ReferenceLoader, logger *slog.Logger, recorder *metrics.Recorder) (*Service, error) {
	cfg = cfg.withDefaults()
	if refs == nil {
		refs = NewReferenceLoader(api, nil, nil, logger, recorder, 0)
	}
	s := &Service{
		api:         api,
		refs:        refs,
		assembler:   NewAssembler(cfg.Location, refs),
		logger:      logger,
		recorder:    recorder,
		cfg:         cfg,
		now:         cfg.Now,
		gamesDedup:  NewDeduplicator[[]games.Game](recorder),
		detailDedup: NewDeduplicator[*games.Game](recorder),
	}
	clock := func() time.Time { return s.now() }

	var err error
	if s.games, err = newTTLCache[[]games.Game](cfg.GamesCacheSize, cfg.GamesTTL, clock); err != nil {
		return nil, fmt.Errorf("games cache: %w", err)
	}
	if s.details, err = newTTLCache[*games.Game](cfg.DetailCacheSize, cfg.DetailTTL, clock); err != nil {
		return nil, fmt.Errorf("detail cache: %w", err)
	}
	return s, nil
}

// References exposes the reference loader.
func (s *Service) References() *ReferenceLoader {
	return s.refs
}

// Location is the club time zone used for day boundaries and display strings.
func (s *Service) Location() *time.Location {
	return s.cfg.Location
}

// WithCurrentStatus returns copies of list with Status re-derived at the
// service clock. Cached records are not modified.
func (s *Service) WithCurrentStatus(list []games.Game) []games.Game {
	now := s.now()
	out := make([]games.Game, len(list))
	for i, g := range list {
		g.Status = StatusAt(g, now, s.cfg.Location).Status
		out[i] = g
	}
	return out
}

// GetGames returns the sorted games matching q, or an empty list on failure.
func (s *Service) GetGames(ctx context.Context, q GameQuery) []games.Game {
	return s.FetchGames(ctx, q).OrElse([]games.Game{})
}

// FetchGames is GetGames with the failure kept.
func (s *Service) FetchGames(ctx context.Context, q GameQuery) Result[[]games.Game] {
	key := QueryKey(q)

	if !q.BypassCache {
		cached, ok := s.games.get(key)
		s.recorder.RecordCacheLookup(metrics.CacheGames, ok)
		if ok {
			return Ok(cached)
		}
	}

	list, err, _ := s.gamesDedup.Do(ctx, key, func(ctx context.Context) ([]games.Game, error) {
		return s.loadGames(ctx, q, key)
	})
	if err != nil {
		logging.Warn(logging.FromContext(ctx, s.logger), "games fetch failed",
			logging.FieldSignature, key,
			"err", err,
		)
		return Fail[[]games.Game](err)
	}
	return Ok(list)
}

func (s *Service) loadGames(ctx context.Context, q GameQuery, key string) ([]games.Game, error) {
	if s.api == nil {
		return nil, providers.ErrProviderUnavailable
	}
	s.ensureReferences(ctx)
	refs := s.refs.Snapshot()

	raw, err := s.api.FetchEvents(ctx, q.remote())
	if err != nil {
		return nil, err
	}

	now := s.now()
	list := make([]games.Game, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, ev := range raw {
		g := s.assembler.Assemble(ev, refs, now)
		if g.ID == "" {
			continue
		}
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		list = append(list, g)
	}
	SortGames(list, now, s.cfg.Location)

	if !q.BypassCache {
		s.games.set(key, list)
	}
	logging.Debug(logging.FromContext(ctx, s.logger), "games loaded",
		logging.FieldSignature, key,
		logging.FieldCount, len(list),
	)
	return list, nil
}

// ensureReferences loads reference data; failures only degrade assembly.
func (s *Service) ensureReferences(ctx context.Context) {
	if err := s.refs.EnsureLoaded(ctx); err != nil {
		logging.Warn(logging.FromContext(ctx, s.logger), "reference data incomplete", "err", err)
	}
}

// GetGameByID returns one game, or nil when it is unknown or could not be fetched.
func (s *Service) GetGameByID(ctx context.Context, id string, useCache bool) *games.Game {
	return s.FetchGameByID(ctx, id, useCache).OrElse(nil)
}

// FetchGameByID is GetGameByID with the failure kept. With useCache it tries
// the detail cache, then fresh query cache entries, then the master cache,
// promoting any hit into the detail cache, before going to the network.
// Without it the network answer is returned and never cached.
func (s *Service) FetchGameByID(ctx context.Context, id string, useCache bool) Result[*games.Game] {
	id = strings.TrimSpace(id)
	if id == "" {
		return Fail[*games.Game](providers.ErrNotFound)
	}

	if useCache {
		if g, ok := s.cachedGame(id); ok {
			return Ok(g)
		}
	}

	key := fmt.Sprintf("detail:%s:cache=%t", id, useCache)
	g, err, _ := s.detailDedup.Do(ctx, key, func(ctx context.Context) (*games.Game, error) {
		return s.loadGame(ctx, id, useCache)
	})
	if err != nil {
		logger := logging.FromContext(ctx, s.logger)
		if errors.Is(err, providers.ErrNotFound) {
			logging.Debug(logger, "game not found", logging.FieldGameID, id)
		} else {
			logging.Warn(logger, "game fetch failed", logging.FieldGameID, id, "err", err)
		}
		return Fail[*games.Game](err)
	}
	return Ok(g)
}

func (s *Service) cachedGame(id string) (*games.Game, bool) {
	if g, ok := s.details.get(id); ok {
		s.recorder.RecordCacheLookup(metrics.CacheDetails, true)
		return g, true
	}
	s.recorder.RecordCacheLookup(metrics.CacheDetails, false)

	var found *games.Game
	s.games.each(func(_ string, list []games.Game) bool {
		found = findGame(list, id)
		return found == nil
	})
	if found == nil {
		if list, ok := s.master.fresh(s.now(), s.cfg.MasterTTL); ok {
			found = findGame(list, id)
		}
	}
	if found == nil {
		return nil, false
	}
	s.details.set(id, found)
	return found, true
}

func (s *Service) loadGame(ctx context.Context, id string, useCache bool) (*games.Game, error) {
	if s.api == nil {
		return nil, providers.ErrProviderUnavailable
	}
	s.ensureReferences(ctx)
	refs := s.refs.Snapshot()

	raw, err := s.api.FetchEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g := s.assembler.Assemble(raw, refs, s.now())
	if g.ID == "" {
		g.ID = id
	}
	if useCache {
		s.details.set(id, &g)
	}
	return &g, nil
}

// InvalidateCaches drops every cached game so the next reads re-assemble
// against current reference data.
func (s *Service) InvalidateCaches() {
	s.games.purge()
	s.details.purge()
	s.master.reset()
}

// ReloadTeams refetches the team list and drops games assembled with the old one.
func (s *Service) ReloadTeams(ctx context.Context) error {
	if err := s.refs.ReloadTeams(ctx); err != nil {
		return err
	}
	s.InvalidateCaches()
	return nil
}

func findGame(list []games.Game, id string) *games.Game {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}
