package gamedata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/domain/games"
	"github.com/preston-bernstein/club-games-service/internal/metrics"
	"github.com/preston-bernstein/club-games-service/internal/providers"
	"github.com/preston-bernstein/club-games-service/internal/testutil"
)

func TestMasterForcedAndPlainCallersShareOneLoad(t *testing.T) {
	api := &testutil.StubAPI{
		Events:  sampleEvents(),
		Gate:    make(chan struct{}),
		Entered: make(chan struct{}, 1),
	}
	h := newHarness(t, api)

	var (
		wg           sync.WaitGroup
		plain, force []games.Game
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		plain = h.svc.GetUpcomingGamesMasterData(context.Background(), false)
	}()
	waitEntered(t, api)

	wg.Add(1)
	go func() {
		defer wg.Done()
		force = h.svc.GetUpcomingGamesMasterData(context.Background(), true)
	}()
	time.Sleep(20 * time.Millisecond)
	close(api.Gate)
	wg.Wait()

	if got := api.EventCalls.Load(); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}
	if len(plain) != 3 || len(force) != 3 || &plain[0] != &force[0] {
		t.Fatalf("expected both callers to receive the same data")
	}
}

func TestMasterFlightRetiredWhenCallersJoinAsItCompletes(t *testing.T) {
	api := &testutil.StubAPI{Events: sampleEvents()}
	h := newHarness(t, api)
	ctx := context.Background()

	for round := 0; round < 50; round++ {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(force bool) {
				defer wg.Done()
				h.svc.GetUpcomingGamesMasterData(ctx, force)
			}(i%2 == 0)
		}
		wg.Wait()

		if h.svc.master.inFlight() {
			t.Fatalf("round %d: expected no load in flight after every caller returned", round)
		}
		calls := api.EventCalls.Load()
		if got := h.svc.GetUpcomingGamesMasterData(ctx, false); len(got) != 3 {
			t.Fatalf("round %d: expected cached snapshot, got %d games", round, len(got))
		}
		if api.EventCalls.Load() != calls {
			t.Fatalf("round %d: expected plain caller to hit the fresh snapshot", round)
		}
	}
}

func TestMasterPlainCallerAfterForcedLoadHitsCache(t *testing.T) {
	api := &testutil.StubAPI{Events: sampleEvents()}
	h := newHarness(t, api)
	ctx := context.Background()

	h.svc.GetUpcomingGamesMasterData(ctx, true)
	if h.svc.master.inFlight() {
		t.Fatalf("expected forced load to be retired once it returned")
	}
	h.svc.GetUpcomingGamesMasterData(ctx, false)

	if api.EventCalls.Load() != 1 {
		t.Fatalf("expected plain caller to reuse the forced snapshot, got %d calls", api.EventCalls.Load())
	}
	if h.rec.CacheHits(metrics.CacheMaster) != 1 {
		t.Fatalf("expected one master cache hit")
	}
}

func TestMasterQueriesPrimaryTeamWindow(t *testing.T) {
	api := &testutil.StubAPI{Events: sampleEvents()}
	h := newHarness(t, api)

	h.svc.GetUpcomingGamesMasterData(context.Background(), false)

	q := api.LastQuery()
	if q.DateFrom != "2025-10-15" || q.DateTo != "2026-03-01" || q.Teams != "1" {
		t.Fatalf("unexpected master query %+v", q)
	}
}

func TestMasterServesFreshSnapshot(t *testing.T) {
	api := &testutil.StubAPI{Events: sampleEvents()}
	h := newHarness(t, api)
	ctx := context.Background()

	first := h.svc.GetUpcomingGamesMasterData(ctx, false)
	h.clock.Advance(4 * time.Minute)
	second := h.svc.GetUpcomingGamesMasterData(ctx, false)

	if api.EventCalls.Load() != 1 {
		t.Fatalf("expected fresh snapshot reuse, got %d calls", api.EventCalls.Load())
	}
	if &first[0] != &second[0] {
		t.Fatalf("expected the same snapshot")
	}
	if h.rec.CacheHits(metrics.CacheMaster) != 1 {
		t.Fatalf("expected one master cache hit")
	}

	h.clock.Advance(time.Minute)
	h.svc.GetUpcomingGamesMasterData(ctx, false)
	if api.EventCalls.Load() != 2 {
		t.Fatalf("expected reload once the snapshot expired, got %d calls", api.EventCalls.Load())
	}
}

func TestMasterForceSkipsCaches(t *testing.T) {
	api := &testutil.StubAPI{Events: sampleEvents()}
	h := newHarness(t, api)
	ctx := context.Background()

	h.svc.GetUpcomingGamesMasterData(ctx, false)
	api.SetEvents(sampleEvents()[:1])
	refreshed := h.svc.GetUpcomingGamesMasterData(ctx, true)

	if api.EventCalls.Load() != 2 {
		t.Fatalf("expected forced reload to reach upstream, got %d calls", api.EventCalls.Load())
	}
	if len(refreshed) != 1 {
		t.Fatalf("expected refreshed data, got %d games", len(refreshed))
	}
	if again := h.svc.GetUpcomingGamesMasterData(ctx, false); len(again) != 1 {
		t.Fatalf("expected refreshed snapshot to be kept, got %d games", len(again))
	}
}

func TestMasterKeepsSnapshotOnFailure(t *testing.T) {
	api := &testutil.StubAPI{Events: sampleEvents()}
	h := newHarness(t, api)
	ctx := context.Background()

	h.svc.GetUpcomingGamesMasterData(ctx, false)
	boom := errors.New("upstream down")
	api.SetEventErr(boom)

	if got := h.svc.GetUpcomingGamesMasterData(ctx, true); got == nil || len(got) != 0 {
		t.Fatalf("expected empty list from failed load, got %#v", got)
	}
	if res := h.svc.FetchUpcoming(ctx, true); !errors.Is(res.Err, boom) {
		t.Fatalf("expected failure in result, got %v", res.Err)
	}
	if kept := h.svc.GetUpcomingGamesMasterData(ctx, false); len(kept) != 3 {
		t.Fatalf("expected previous snapshot to survive, got %d games", len(kept))
	}
}

func TestMasterRequiresPrimaryTeam(t *testing.T) {
	api := &testutil.StubAPI{Events: sampleEvents()}
	svc, err := NewService(Config{Now: func() time.Time { return baseTime }}, api, nil, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	res := svc.FetchUpcoming(context.Background(), false)
	if !errors.Is(res.Err, errNoPrimaryTeam) {
		t.Fatalf("expected missing primary team error, got %v", res.Err)
	}
	if api.EventCalls.Load() != 0 {
		t.Fatalf("expected no upstream call")
	}
}

func TestMasterCallerCancellation(t *testing.T) {
	api := &testutil.StubAPI{
		Events:  sampleEvents(),
		Gate:    make(chan struct{}),
		Entered: make(chan struct{}, 1),
	}
	h := newHarness(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Result[[]games.Game], 1)
	go func() {
		done <- h.svc.FetchUpcoming(ctx, false)
	}()
	waitEntered(t, api)
	cancel()

	res := <-done
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("expected canceled caller, got %v", res.Err)
	}

	close(api.Gate)
	if got := h.svc.GetUpcomingGamesMasterData(context.Background(), false); len(got) != 3 {
		t.Fatalf("expected detached load to complete, got %d games", len(got))
	}
}

func TestMasterStoreKeepsLatestStartedLoad(t *testing.T) {
	var m masterCache
	newer := []games.Game{{ID: "new"}}
	older := []games.Game{{ID: "old"}}

	if !m.store(newer, baseTime.Add(time.Second), baseTime.Add(2*time.Second)) {
		t.Fatalf("expected first store to win")
	}
	if m.store(older, baseTime, baseTime.Add(3*time.Second)) {
		t.Fatalf("expected load started earlier to be discarded")
	}
	list, ok := m.fresh(baseTime.Add(3*time.Second), time.Minute)
	if !ok || list[0].ID != "new" {
		t.Fatalf("expected newer snapshot kept, got %+v", list)
	}

	m.reset()
	if _, ok := m.fresh(baseTime, time.Minute); ok {
		t.Fatalf("expected reset to clear the snapshot")
	}
}

func TestCurrentGamePrefersLiveGame(t *testing.T) {
	api := &testutil.StubAPI{Events: sampleEvents()}
	h := newHarness(t, api)
	ctx := context.Background()

	current := h.svc.CurrentGame(ctx)
	if current == nil || current.ID != "103" {
		t.Fatalf("expected live game, got %+v", current)
	}

	future := h.svc.FutureGames(ctx, 0)
	if got := ids(future); len(got) != 2 || got[0] != "102" || got[1] != "101" {
		t.Fatalf("unexpected future games %v", got)
	}
	if limited := h.svc.FutureGames(ctx, 1); len(limited) != 1 || limited[0].ID != "102" {
		t.Fatalf("expected limit to keep the earliest game, got %v", ids(limited))
	}
	if n := h.svc.UpcomingCount(ctx); n != 2 {
		t.Fatalf("expected two upcoming games, got %d", n)
	}
	if api.EventCalls.Load() != 1 {
		t.Fatalf("expected derived views to share the snapshot, got %d calls", api.EventCalls.Load())
	}
}

func TestCurrentGameFallsBackToNearestNearbyGame(t *testing.T) {
	api := &testutil.StubAPI{Events: []providers.RawEvent{
		testutil.RawEventAt("201", baseTime.Add(3*time.Hour), "1", "2"),
		testutil.RawEventAt("202", baseTime.Add(48*time.Hour), "2", "1"),
	}}
	h := newHarness(t, api)
	ctx := context.Background()

	current := h.svc.CurrentGame(ctx)
	if current == nil || current.ID != "201" {
		t.Fatalf("expected today's game, got %+v", current)
	}
	if future := h.svc.FutureGames(ctx, 5); len(future) != 1 || future[0].ID != "202" {
		t.Fatalf("expected the remaining game only, got %v", ids(future))
	}
}

func TestCurrentGameNoneNearby(t *testing.T) {
	list := []games.Game{gameAt("301", baseTime.AddDate(0, 0, 10)), {ID: "302"}}

	if g := currentGame(list, baseTime, time.UTC); g != nil {
		t.Fatalf("expected no current game, got %+v", g)
	}
}

func TestCurrentGameLiveWindowIsHalfOpen(t *testing.T) {
	kickoff := baseTime.Add(-90 * time.Minute)
	list := []games.Game{gameAt("401", kickoff), gameAt("402", baseTime.Add(5*time.Minute))}

	g := currentGame(list, baseTime, time.UTC)
	if g == nil || g.ID != "402" {
		t.Fatalf("expected the game starting in five minutes, got %+v", g)
	}
}
