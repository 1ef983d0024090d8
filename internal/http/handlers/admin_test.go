package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/club-games-service/internal/providers"
	"github.com/preston-bernstein/club-games-service/internal/testutil"
)

type stubReloader struct {
	calls int
	err   error
}

func (s *stubReloader) ReloadTeams(ctx context.Context) error {
	_ = ctx
	s.calls++
	return s.err
}

func adminRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/admin/reference/teams/reload", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAdminReloadRequiresAuth(t *testing.T) {
	reloader := &stubReloader{}
	h := NewAdminHandler(reloader, "secret", nil)

	for _, token := range []string{"", "wrong"} {
		rr := testutil.ServeRequest(http.HandlerFunc(h.ReloadTeams), adminRequest(token))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	}
	if reloader.calls != 0 {
		t.Fatalf("expected no reload without auth")
	}
}

func TestAdminReloadDisabledWithoutToken(t *testing.T) {
	h := NewAdminHandler(&stubReloader{}, "", nil)
	rr := testutil.ServeRequest(http.HandlerFunc(h.ReloadTeams), adminRequest(""))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
}

func TestAdminReloadCallsReloader(t *testing.T) {
	reloader := &stubReloader{}
	h := NewAdminHandler(reloader, "secret", nil)

	rr := testutil.ServeRequest(http.HandlerFunc(h.ReloadTeams), adminRequest("secret"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	if reloader.calls != 1 {
		t.Fatalf("expected one reload, got %d", reloader.calls)
	}
}

func TestAdminReloadFailures(t *testing.T) {
	h := NewAdminHandler(&stubReloader{err: errors.New("upstream down")}, "secret", nil)
	rr := testutil.ServeRequest(http.HandlerFunc(h.ReloadTeams), adminRequest("secret"))
	testutil.AssertStatus(t, rr, http.StatusBadGateway)

	h = NewAdminHandler(nil, "secret", nil)
	rr = testutil.ServeRequest(http.HandlerFunc(h.ReloadTeams), adminRequest("secret"))
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestAdminReloadRefreshesServedTeams(t *testing.T) {
	api := sampleAPI()
	svc := newTestService(t, api)
	h := NewHandler(svc, nil, nil)
	admin := NewAdminHandler(svc, "secret", nil)

	testutil.Serve(http.HandlerFunc(h.Games), http.MethodGet, "/games", nil)
	api.Teams = []providers.RawEntity{{ID: "1", Name: "Renamed"}, {ID: "2", Name: "Away"}}

	rr := testutil.ServeRequest(http.HandlerFunc(admin.ReloadTeams), adminRequest("secret"))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.Serve(http.HandlerFunc(h.Games), http.MethodGet, "/games", nil)
	var resp GamesResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Games[0].HomeTeamName != "Renamed" {
		t.Fatalf("expected reloaded team name, got %q", resp.Games[0].HomeTeamName)
	}
}
