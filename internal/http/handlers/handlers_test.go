package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/domain/games"
	"github.com/preston-bernstein/club-games-service/internal/providers"
	"github.com/preston-bernstein/club-games-service/internal/testutil"
	"github.com/preston-bernstein/club-games-service/internal/warmer"
)

func serveRoute(pattern string, fn http.HandlerFunc, method, path string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, fn)
	return testutil.Serve(mux, method, path, nil)
}

func TestHealth(t *testing.T) {
	h := NewHandler(newTestService(t, sampleAPI()), nil, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Health), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := NewHandler(newTestService(t, sampleAPI()), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req.WithContext(ctx))

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "shutting down" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestReadyReflectsWarmerStatus(t *testing.T) {
	status := warmer.Status{}
	h := NewHandler(newTestService(t, sampleAPI()), nil, func() warmer.Status { return status })

	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)

	status = warmer.Status{ConsecutiveFailures: 3, LastError: "upstream down", LastSuccess: testNow}
	rr = testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "upstream down" {
		t.Fatalf("expected last warm error, got %q", resp["error"])
	}

	status = warmer.Status{LastSuccess: testNow}
	rr = testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestReadyWithoutWarmer(t *testing.T) {
	h := NewHandler(newTestService(t, sampleAPI()), nil, nil)
	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestGamesPassesQueryThrough(t *testing.T) {
	api := sampleAPI()
	h := NewHandler(newTestService(t, api), nil, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Games), http.MethodGet,
		"/games?date_from=2025-10-01&date_to=2025-10-31&league=5&teams=1%202&f2f=true", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp GamesResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Count != 3 || len(resp.Games) != 3 {
		t.Fatalf("expected 3 games, got %+v", resp)
	}
	if resp.Games[0].ID != "103" || resp.Games[0].Status != games.StatusLive {
		t.Fatalf("expected live game first, got %+v", resp.Games[0])
	}
	q := api.LastQuery()
	if q.DateFrom != "2025-10-01" || q.DateTo != "2025-10-31" || q.League != "5" || q.Teams != "1|2" {
		t.Fatalf("unexpected upstream query %+v", q)
	}
}

func TestGamesUseCacheFalseBypassesCache(t *testing.T) {
	api := sampleAPI()
	h := NewHandler(newTestService(t, api), nil, nil)

	for i := 0; i < 2; i++ {
		rr := testutil.Serve(http.HandlerFunc(h.Games), http.MethodGet, "/games?teams=1&use_cache=false", nil)
		testutil.AssertStatus(t, rr, http.StatusOK)
	}
	if api.EventCalls.Load() != 2 {
		t.Fatalf("expected every uncached request upstream, got %d", api.EventCalls.Load())
	}
}

func TestGamesRejectsBadParams(t *testing.T) {
	h := NewHandler(newTestService(t, sampleAPI()), nil, nil)

	for _, path := range []string{
		"/games?date_from=15.10.2025",
		"/games?date_to=tomorrow",
		"/games?f2f=maybe",
		"/games?use_cache=perhaps",
	} {
		rr := testutil.Serve(http.HandlerFunc(h.Games), http.MethodGet, path, nil)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	}
}

func TestGamesUpstreamFailureServesEmptyList(t *testing.T) {
	api := sampleAPI()
	api.EventErr = errors.New("upstream down")
	h := NewHandler(newTestService(t, api), nil, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Games), http.MethodGet, "/games", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp GamesResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Count != 0 || resp.Games == nil {
		t.Fatalf("expected empty list, got %+v", resp)
	}
}

func TestUpcomingAndDerivedViews(t *testing.T) {
	api := sampleAPI()
	h := NewHandler(newTestService(t, api), nil, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Upcoming), http.MethodGet, "/games/upcoming", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var upcoming GamesResponse
	testutil.DecodeJSON(t, rr, &upcoming)
	if upcoming.Count != 3 {
		t.Fatalf("expected master snapshot of 3 games, got %d", upcoming.Count)
	}

	rr = testutil.Serve(http.HandlerFunc(h.UpcomingCount), http.MethodGet, "/games/upcoming/count", nil)
	var count CountResponse
	testutil.DecodeJSON(t, rr, &count)
	if count.Count != 2 {
		t.Fatalf("expected 2 upcoming, got %d", count.Count)
	}

	rr = testutil.Serve(http.HandlerFunc(h.Current), http.MethodGet, "/games/current", nil)
	var current CurrentResponse
	testutil.DecodeJSON(t, rr, &current)
	if current.Game == nil || current.Game.ID != "103" {
		t.Fatalf("expected live game as current, got %+v", current.Game)
	}

	rr = testutil.Serve(http.HandlerFunc(h.Future), http.MethodGet, "/games/future?limit=1", nil)
	var future GamesResponse
	testutil.DecodeJSON(t, rr, &future)
	if future.Count != 1 || future.Games[0].ID != "102" {
		t.Fatalf("unexpected future games %+v", future)
	}

	if api.EventCalls.Load() != 1 {
		t.Fatalf("expected derived views to reuse the snapshot, got %d calls", api.EventCalls.Load())
	}

	rr = testutil.Serve(http.HandlerFunc(h.Upcoming), http.MethodGet, "/games/upcoming?force=true", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if api.EventCalls.Load() != 2 {
		t.Fatalf("expected forced reload, got %d calls", api.EventCalls.Load())
	}
}

func TestCurrentWithoutGameReturnsNull(t *testing.T) {
	api := sampleAPI()
	api.Events = nil
	h := NewHandler(newTestService(t, api), nil, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Current), http.MethodGet, "/games/current", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if got := rr.Body.String(); got != "{\"game\":null}\n" {
		t.Fatalf("expected null game, got %s", got)
	}
}

func TestFutureRejectsBadLimit(t *testing.T) {
	h := NewHandler(newTestService(t, sampleAPI()), nil, nil)
	for _, path := range []string{"/games/future?limit=0", "/games/future?limit=x", "/games/future?limit=500"} {
		rr := testutil.Serve(http.HandlerFunc(h.Future), http.MethodGet, path, nil)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	}
	if rr := testutil.Serve(http.HandlerFunc(h.Upcoming), http.MethodGet, "/games/upcoming?force=sometimes", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected bad force flag rejected, got %d", rr.Code)
	}
}

func TestGameByID(t *testing.T) {
	api := sampleAPI()
	h := NewHandler(newTestService(t, api), nil, nil)

	rr := serveRoute("GET /games/{id}", h.GameByID, http.MethodGet, "/games/101")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var g games.Game
	testutil.DecodeJSON(t, rr, &g)
	if g.ID != "101" || g.HomeTeamName != "Home" {
		t.Fatalf("unexpected game %+v", g)
	}
	if !g.EventDate.Equal(testNow.Add(48 * time.Hour)) {
		t.Fatalf("unexpected event date %v", g.EventDate)
	}

	serveRoute("GET /games/{id}", h.GameByID, http.MethodGet, "/games/101")
	if api.DetailCalls.Load() != 1 {
		t.Fatalf("expected cached detail, got %d calls", api.DetailCalls.Load())
	}
	serveRoute("GET /games/{id}", h.GameByID, http.MethodGet, "/games/101?use_cache=false")
	if api.DetailCalls.Load() != 2 {
		t.Fatalf("expected use_cache=false to refetch, got %d calls", api.DetailCalls.Load())
	}
}

func TestGameByIDNotFoundAndInvalid(t *testing.T) {
	h := NewHandler(newTestService(t, sampleAPI()), nil, nil)

	rr := serveRoute("GET /games/{id}", h.GameByID, http.MethodGet, "/games/999")
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = serveRoute("GET /games/{id}", h.GameByID, http.MethodGet, "/games/%20")
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	rr = serveRoute("GET /games/{id}", h.GameByID, http.MethodGet, "/games/101?use_cache=nope")
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestCachedGamesServeStatusAsOfNow(t *testing.T) {
	api := &testutil.StubAPI{
		Teams:  testutil.SampleTeams(),
		Events: []providers.RawEvent{testutil.RawEventAt("501", testNow.Add(8*time.Minute), "1", "2")},
	}
	clock := testutil.NewClock(testNow)
	h := NewHandler(newClockedService(t, api, clock.Now), nil, nil)

	statusOf := func(rr *httptest.ResponseRecorder) games.Status {
		t.Helper()
		testutil.AssertStatus(t, rr, http.StatusOK)
		var resp GamesResponse
		testutil.DecodeJSON(t, rr, &resp)
		if resp.Count != 1 {
			t.Fatalf("expected one game, got %d", resp.Count)
		}
		return resp.Games[0].Status
	}

	if got := statusOf(testutil.Serve(http.HandlerFunc(h.Games), http.MethodGet, "/games?teams=1", nil)); got != games.StatusUpcoming {
		t.Fatalf("expected upcoming before kickoff window, got %s", got)
	}
	if got := statusOf(testutil.Serve(http.HandlerFunc(h.Upcoming), http.MethodGet, "/games/upcoming", nil)); got != games.StatusUpcoming {
		t.Fatalf("expected upcoming master snapshot, got %s", got)
	}
	serveRoute("GET /games/{id}", h.GameByID, http.MethodGet, "/games/501")

	clock.Advance(4 * time.Minute)

	if got := statusOf(testutil.Serve(http.HandlerFunc(h.Games), http.MethodGet, "/games?teams=1", nil)); got != games.StatusLive {
		t.Fatalf("expected cached query to report live, got %s", got)
	}
	if got := statusOf(testutil.Serve(http.HandlerFunc(h.Upcoming), http.MethodGet, "/games/upcoming", nil)); got != games.StatusLive {
		t.Fatalf("expected cached master snapshot to report live, got %s", got)
	}

	rr := serveRoute("GET /games/{id}", h.GameByID, http.MethodGet, "/games/501")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var g games.Game
	testutil.DecodeJSON(t, rr, &g)
	if g.Status != games.StatusLive {
		t.Fatalf("expected cached detail to report live, got %s", g.Status)
	}

	rr = testutil.Serve(http.HandlerFunc(h.Current), http.MethodGet, "/games/current", nil)
	var current CurrentResponse
	testutil.DecodeJSON(t, rr, &current)
	if current.Game == nil || current.Game.Status != games.StatusLive {
		t.Fatalf("expected current game to report live, got %+v", current.Game)
	}

	if api.EventCalls.Load() != 2 || api.DetailCalls.Load() != 0 {
		t.Fatalf("expected cached reads only, got %d event and %d detail calls", api.EventCalls.Load(), api.DetailCalls.Load())
	}
}
