package gamedata

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/club-games-service/internal/domain/reference"
	"github.com/preston-bernstein/club-games-service/internal/kvstore"
	"github.com/preston-bernstein/club-games-service/internal/logging"
	"github.com/preston-bernstein/club-games-service/internal/metrics"
	"github.com/preston-bernstein/club-games-service/internal/providers"
	"github.com/preston-bernstein/club-games-service/internal/teamstore"
)

// Durable snapshot keys.
const (
	LeaguesKey = "leagues_cache"
	SeasonsKey = "seasons_cache"
	VenuesKey  = "venues_cache"
)

const (
	sourceStore   = "store"
	sourceNetwork = "network"
)

// ReferenceMaps is a read-only view of the id-keyed reference dictionaries.
// The loader replaces maps wholesale, so a snapshot never changes under a reader.
type ReferenceMaps struct {
	Teams   map[string]reference.Team
	Leagues map[string]reference.League
	Seasons map[string]reference.Season
	Venues  map[string]reference.Venue
}

// ReferenceLoader lazily fills the reference maps, durable store first,
// network second. Each kind loads at most once per loader until it succeeds;
// failures stay retryable for every kind.
type ReferenceLoader struct {
	api      providers.ReferenceAPI
	kv       kvstore.Store
	teams    *teamstore.Store
	logger   *slog.Logger
	recorder *metrics.Recorder
	now      func() time.Time
	maxAge   time.Duration

	group singleflight.Group

	mu     sync.RWMutex
	loaded map[reference.Kind]bool
	maps   ReferenceMaps
}

// NewReferenceLoader builds a loader. maxAge > 0 treats older durable
// snapshots as misses.
func NewReferenceLoader(api providers.ReferenceAPI, kv kvstore.Store, teams *teamstore.Store, logger *slog.Logger, recorder *metrics.Recorder, maxAge time.Duration) *ReferenceLoader {
	if kv == nil {
		kv = kvstore.NewMemoryStore()
	}
	if teams == nil {
		teams = teamstore.New(kv)
	}
	return &ReferenceLoader{
		api:      api,
		kv:       kv,
		teams:    teams,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
		maxAge:   maxAge,
		loaded:   make(map[reference.Kind]bool),
		maps: ReferenceMaps{
			Teams:   map[string]reference.Team{},
			Leagues: map[string]reference.League{},
			Seasons: map[string]reference.Season{},
			Venues:  map[string]reference.Venue{},
		},
	}
}

func (r *ReferenceLoader) LoadLeagues(ctx context.Context) error {
	return r.load(ctx, reference.KindLeagues)
}

func (r *ReferenceLoader) LoadSeasons(ctx context.Context) error {
	return r.load(ctx, reference.KindSeasons)
}

func (r *ReferenceLoader) LoadVenues(ctx context.Context) error {
	return r.load(ctx, reference.KindVenues)
}

func (r *ReferenceLoader) LoadTeams(ctx context.Context) error {
	return r.load(ctx, reference.KindTeams)
}

// EnsureLoaded runs every loader concurrently and returns the first failure.
// Kinds that loaded keep their maps regardless.
func (r *ReferenceLoader) EnsureLoaded(ctx context.Context) error {
	var g errgroup.Group
	for _, kind := range reference.Kinds {
		g.Go(func() error {
			return r.load(ctx, kind)
		})
	}
	return g.Wait()
}

// Loaded reports whether kind has been loaded.
func (r *ReferenceLoader) Loaded(kind reference.Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded[kind]
}

// Snapshot returns the current maps.
func (r *ReferenceLoader) Snapshot() ReferenceMaps {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.maps
}

// LogoURI resolves a persisted team logo.
func (r *ReferenceLoader) LogoURI(id string) string {
	return r.teams.LogoURI(id)
}

// InvalidateTeams clears the persisted team list and marks teams unloaded so
// the next load goes to the network. The current map stays until then.
func (r *ReferenceLoader) InvalidateTeams(ctx context.Context) error {
	if err := r.teams.Clear(ctx); err != nil {
		return fmt.Errorf("clear team store: %w", err)
	}
	r.mu.Lock()
	r.loaded[reference.KindTeams] = false
	r.mu.Unlock()
	return nil
}

// ReloadTeams invalidates and immediately reloads the team list.
func (r *ReferenceLoader) ReloadTeams(ctx context.Context) error {
	if err := r.InvalidateTeams(ctx); err != nil {
		return err
	}
	return r.LoadTeams(ctx)
}

func (r *ReferenceLoader) load(ctx context.Context, kind reference.Kind) error {
	if r.Loaded(kind) {
		return nil
	}

	_, err, _ := r.group.Do(string(kind), func() (any, error) {
		if r.Loaded(kind) {
			return nil, nil
		}
		source, err := r.fill(ctx, kind)
		r.recorder.RecordReferenceLoad(string(kind), source, err)

		logger := logging.FromContext(ctx, r.logger)
		if err != nil {
			logging.Warn(logger, "reference load failed",
				logging.FieldKind, string(kind),
				"err", err,
			)
			return nil, err
		}
		logging.Debug(logger, "reference loaded",
			logging.FieldKind, string(kind),
			logging.FieldSource, source,
		)
		r.mu.Lock()
		r.loaded[kind] = true
		r.mu.Unlock()
		return nil, nil
	})
	return err
}

func (r *ReferenceLoader) fill(ctx context.Context, kind reference.Kind) (string, error) {
	switch kind {
	case reference.KindTeams:
		return r.fillTeams(ctx)
	case reference.KindLeagues:
		m, source, err := loadEntities(ctx, r, LeaguesKey, r.fetchLeagues, toLeague, leagueID)
		if err == nil {
			r.publish(func(maps *ReferenceMaps) { maps.Leagues = m })
		}
		return source, err
	case reference.KindSeasons:
		m, source, err := loadEntities(ctx, r, SeasonsKey, r.fetchSeasons, toSeason, seasonID)
		if err == nil {
			r.publish(func(maps *ReferenceMaps) { maps.Seasons = m })
		}
		return source, err
	case reference.KindVenues:
		m, source, err := loadEntities(ctx, r, VenuesKey, r.fetchVenues, toVenue, venueID)
		if err == nil {
			r.publish(func(maps *ReferenceMaps) { maps.Venues = m })
		}
		return source, err
	}
	return "", fmt.Errorf("unknown reference kind %q", kind)
}

func (r *ReferenceLoader) fillTeams(ctx context.Context) (string, error) {
	logger := logging.FromContext(ctx, r.logger)

	stored, at, err := r.teams.Load(ctx)
	switch {
	case err != nil:
		logging.Warn(logger, "team store read failed", "err", err)
	case len(stored) > 0 && !r.stale(at):
		r.publish(func(maps *ReferenceMaps) { maps.Teams = indexBy(stored, teamID) })
		return sourceStore, nil
	}

	if r.api == nil {
		return sourceNetwork, providers.ErrProviderUnavailable
	}
	raw, err := r.api.FetchTeams(ctx)
	if err != nil {
		return sourceNetwork, err
	}
	teams := make([]reference.Team, 0, len(raw))
	for _, e := range raw {
		teams = append(teams, toTeam(e))
	}
	if err := r.teams.Save(ctx, teams, r.now()); err != nil {
		logging.Warn(logger, "team store write failed", "err", err)
	}
	r.publish(func(maps *ReferenceMaps) { maps.Teams = indexBy(teams, teamID) })
	return sourceNetwork, nil
}

// loadEntities reads key from the durable store, falling back to fetch and
// writing the fetched list back. Store failures degrade to the network path.
func loadEntities[T any](
	ctx context.Context,
	r *ReferenceLoader,
	key string,
	fetch func(context.Context) ([]providers.RawEntity, error),
	convert func(providers.RawEntity) T,
	id func(T) string,
) (map[string]T, string, error) {
	logger := logging.FromContext(ctx, r.logger)

	env, ok, err := kvstore.GetJSON[[]T](ctx, r.kv, key)
	switch {
	case err != nil:
		logging.Warn(logger, "reference store read failed", "key", key, "err", err)
	case ok && !r.stale(env.FetchedAt()):
		return indexBy(env.Data, id), sourceStore, nil
	}

	if r.api == nil {
		return nil, sourceNetwork, providers.ErrProviderUnavailable
	}
	raw, err := fetch(ctx)
	if err != nil {
		return nil, sourceNetwork, err
	}
	list := make([]T, 0, len(raw))
	for _, e := range raw {
		list = append(list, convert(e))
	}
	if err := kvstore.SetJSON(ctx, r.kv, key, list, r.now()); err != nil {
		logging.Warn(logger, "reference store write failed", "key", key, "err", err)
	}
	return indexBy(list, id), sourceNetwork, nil
}

func (r *ReferenceLoader) stale(fetchedAt time.Time) bool {
	return r.maxAge > 0 && r.now().Sub(fetchedAt) > r.maxAge
}

// publish swaps in new maps under the write lock.
func (r *ReferenceLoader) publish(update func(*ReferenceMaps)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.maps
	update(&next)
	r.maps = next
}

func indexBy[T any](list []T, id func(T) string) map[string]T {
	out := make(map[string]T, len(list))
	for _, v := range list {
		if key := id(v); key != "" {
			out[key] = v
		}
	}
	return out
}

func teamID(t reference.Team) string     { return t.ID }
func leagueID(l reference.League) string { return l.ID }
func seasonID(s reference.Season) string { return s.ID }
func venueID(v reference.Venue) string   { return v.ID }

func (r *ReferenceLoader) fetchLeagues(ctx context.Context) ([]providers.RawEntity, error) {
	return r.api.FetchLeagues(ctx)
}

func (r *ReferenceLoader) fetchSeasons(ctx context.Context) ([]providers.RawEntity, error) {
	return r.api.FetchSeasons(ctx)
}

func (r *ReferenceLoader) fetchVenues(ctx context.Context) ([]providers.RawEntity, error) {
	return r.api.FetchVenues(ctx)
}

func toTeam(e providers.RawEntity) reference.Team {
	return reference.Team{
		ID:        e.ID.String(),
		Name:      e.Name,
		ShortName: e.ShortName,
		City:      e.City,
		LogoURL:   e.Logo,
	}
}

func toLeague(e providers.RawEntity) reference.League {
	return reference.League{ID: e.ID.String(), Name: e.Name}
}

func toSeason(e providers.RawEntity) reference.Season {
	return reference.Season{ID: e.ID.String(), Name: e.Name}
}

func toVenue(e providers.RawEntity) reference.Venue {
	return reference.Venue{ID: e.ID.String(), Name: e.Name, Address: e.Address}
}
