package handlers

import (
	"testing"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/gamedata"
	"github.com/preston-bernstein/club-games-service/internal/providers"
	"github.com/preston-bernstein/club-games-service/internal/testutil"
)

var testNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func sampleAPI() *testutil.StubAPI {
	return &testutil.StubAPI{
		Teams: testutil.SampleTeams(),
		Events: []providers.RawEvent{
			testutil.RawEventAt("101", testNow.Add(48*time.Hour), "1", "2"),
			testutil.RawEventAt("102", testNow.Add(3*time.Hour), "2", "1"),
			testutil.RawEventAt("103", testNow.Add(-2*time.Minute), "1", "2"),
		},
	}
}

func newTestService(t *testing.T, api *testutil.StubAPI) *gamedata.Service {
	return newClockedService(t, api, testutil.NowAt(testNow))
}

func newClockedService(t *testing.T, api *testutil.StubAPI, now func() time.Time) *gamedata.Service {
	t.Helper()
	svc, err := gamedata.NewService(gamedata.Config{
		PrimaryTeamID: "1",
		Location:      time.UTC,
		Now:           now,
	}, api, nil, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}
