package gamedata

import (
	"testing"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/kvstore"
	"github.com/preston-bernstein/club-games-service/internal/metrics"
	"github.com/preston-bernstein/club-games-service/internal/testutil"
)

var baseTime = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

type serviceHarness struct {
	svc   *Service
	api   *testutil.StubAPI
	clock *testutil.Clock
	rec   *metrics.Recorder
	kv    *kvstore.MemoryStore
}

func newHarness(t *testing.T, api *testutil.StubAPI) *serviceHarness {
	t.Helper()
	if api.Teams == nil {
		api.Teams = testutil.SampleTeams()
	}
	clock := testutil.NewClock(baseTime)
	rec := metrics.NewRecorder()
	kv := kvstore.NewMemoryStore()
	refs := NewReferenceLoader(api, kv, nil, nil, rec, 0)
	refs.now = clock.Now
	svc, err := NewService(Config{
		PrimaryTeamID: "1",
		Location:      time.UTC,
		Now:           clock.Now,
	}, api, refs, nil, rec)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &serviceHarness{svc: svc, api: api, clock: clock, rec: rec, kv: kv}
}

// waitEntered blocks until the stub API reports a caller inside FetchEvents.
func waitEntered(t *testing.T, api *testutil.StubAPI) {
	t.Helper()
	select {
	case <-api.Entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for upstream call")
	}
}
