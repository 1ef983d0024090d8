package gamedata

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/domain/games"
	"github.com/preston-bernstein/club-games-service/internal/logging"
	"github.com/preston-bernstein/club-games-service/internal/metrics"
	"github.com/preston-bernstein/club-games-service/internal/timeutil"
)

var errNoPrimaryTeam = errors.New("primary team id not configured")

// masterCache holds the upcoming-games snapshot of the primary team. At most
// one load runs at a time; callers arriving during a load join it.
type masterCache struct {
	mu        sync.Mutex
	data      []games.Game
	has       bool
	storedAt  time.Time
	startedAt time.Time
	flight    *masterFlight
}

// masterFlight is one master load. list and err are set before done closes.
type masterFlight struct {
	done  chan struct{}
	force bool
	list  []games.Game
	err   error
}

// inFlight reports whether a master load is running.
func (m *masterCache) inFlight() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flight != nil
}

// fresh returns the snapshot when it is younger than ttl.
func (m *masterCache) fresh(now time.Time, ttl time.Duration) ([]games.Game, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.has || now.Sub(m.storedAt) >= ttl {
		return nil, false
	}
	return m.data, true
}

// store keeps list unless a load that started later already stored its data.
func (m *masterCache) store(list []games.Game, startedAt, storedAt time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.has && startedAt.Before(m.startedAt) {
		return false
	}
	m.data = list
	m.has = true
	m.startedAt = startedAt
	m.storedAt = storedAt
	return true
}

func (m *masterCache) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.has = false
	m.storedAt = time.Time{}
	m.startedAt = time.Time{}
}

// GetUpcomingGamesMasterData returns the primary team's games from today
// through the master window, or an empty list on failure.
func (s *Service) GetUpcomingGamesMasterData(ctx context.Context, force bool) []games.Game {
	return s.FetchUpcoming(ctx, force).OrElse([]games.Game{})
}

// FetchUpcoming is GetUpcomingGamesMasterData with the failure kept. A load
// already in flight is joined by every caller, forced or not; force only
// decides whether a new load skips the freshness check and the query cache.
func (s *Service) FetchUpcoming(ctx context.Context, force bool) Result[[]games.Game] {
	m := &s.master

	m.mu.Lock()
	f := m.flight
	if f == nil {
		if !force && m.has && s.now().Sub(m.storedAt) < s.cfg.MasterTTL {
			data := m.data
			m.mu.Unlock()
			s.recorder.RecordCacheLookup(metrics.CacheMaster, true)
			return Ok(data)
		}
		f = &masterFlight{done: make(chan struct{}), force: force}
		m.flight = f
		go s.runMasterFlight(context.WithoutCancel(ctx), f)
	}
	m.mu.Unlock()
	s.recorder.RecordCacheLookup(metrics.CacheMaster, false)

	select {
	case <-ctx.Done():
		return Fail[[]games.Game](ctx.Err())
	case <-f.done:
		if f.err != nil {
			return Fail[[]games.Game](f.err)
		}
		return Ok(f.list)
	}
}

// runMasterFlight loads the snapshot and retires f under the same lock that
// guards the freshness check.
func (s *Service) runMasterFlight(ctx context.Context, f *masterFlight) {
	list, err := s.loadMaster(ctx, f.force)

	m := &s.master
	m.mu.Lock()
	f.list, f.err = list, err
	if m.flight == f {
		m.flight = nil
	}
	m.mu.Unlock()
	close(f.done)
}

func (s *Service) loadMaster(ctx context.Context, force bool) ([]games.Game, error) {
	m := &s.master
	logger := logging.FromContext(ctx, s.logger)
	if s.cfg.PrimaryTeamID == "" {
		logging.Warn(logger, "master load skipped", "err", errNoPrimaryTeam)
		return nil, errNoPrimaryTeam
	}

	started := s.now()
	today := timeutil.StartOfDay(started, s.cfg.Location)
	q := GameQuery{
		DateFrom:    timeutil.FormatDate(today),
		DateTo:      timeutil.FormatDate(today.AddDate(0, 0, s.cfg.MasterWindowDays)),
		Teams:       s.cfg.PrimaryTeamID,
		BypassCache: force,
	}

	res := s.FetchGames(ctx, q)
	if !res.OK() {
		logging.Warn(logger, "master load failed", logging.FieldForce, force, "err", res.Err)
		return nil, res.Err
	}

	list := make([]games.Game, len(res.Value))
	copy(list, res.Value)
	SortGames(list, s.now(), s.cfg.Location)

	if !m.store(list, started, s.now()) {
		logging.Debug(logger, "master load superseded", logging.FieldForce, force)
	}
	logging.Info(logger, "master cache refreshed",
		logging.FieldCount, len(list),
		logging.FieldForce, force,
	)
	return list, nil
}

// CurrentGame picks the game to feature now from the master snapshot: a game
// in its live window if any, otherwise the game nearest to now whose day
// window (from the day before it, up to two days after its day starts)
// contains now.
func (s *Service) CurrentGame(ctx context.Context) *games.Game {
	list := s.GetUpcomingGamesMasterData(ctx, false)
	return currentGame(list, s.now(), s.cfg.Location)
}

// FutureGames returns up to limit upcoming games after the current one,
// earliest first. limit <= 0 means DefaultFutureLimit.
func (s *Service) FutureGames(ctx context.Context, limit int) []games.Game {
	if limit <= 0 {
		limit = DefaultFutureLimit
	}
	list := s.GetUpcomingGamesMasterData(ctx, false)
	now := s.now()
	current := currentGame(list, now, s.cfg.Location)

	out := make([]games.Game, 0, limit)
	for _, g := range list {
		if current != nil && g.ID == current.ID {
			continue
		}
		if StatusAt(g, now, s.cfg.Location).Status == games.StatusUpcoming {
			out = append(out, g)
		}
	}
	sortByDate(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// UpcomingCount counts the upcoming games in the master snapshot.
func (s *Service) UpcomingCount(ctx context.Context) int {
	list := s.GetUpcomingGamesMasterData(ctx, false)
	now := s.now()
	n := 0
	for _, g := range list {
		if StatusAt(g, now, s.cfg.Location).Status == games.StatusUpcoming {
			n++
		}
	}
	return n
}

func currentGame(list []games.Game, now time.Time, loc *time.Location) *games.Game {
	for i := range list {
		t := list[i].EventDate
		if t.IsZero() {
			continue
		}
		if !now.Before(t.Add(-liveLead)) && now.Before(t.Add(liveTail)) {
			return &list[i]
		}
	}

	var (
		best     *games.Game
		bestDist time.Duration
	)
	for i := range list {
		t := list[i].EventDate
		if t.IsZero() {
			continue
		}
		day := timeutil.StartOfDay(t, loc)
		if now.Before(day.AddDate(0, 0, -1)) || !now.Before(day.AddDate(0, 0, 2)) {
			continue
		}
		dist := t.Sub(now)
		if dist < 0 {
			dist = -dist
		}
		if best == nil || dist < bestDist {
			best, bestDist = &list[i], dist
		}
	}
	return best
}
