package clubapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/providers"
)

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(rt roundTripperFunc) *Client {
	return NewClient(Config{
		BaseURL:    "http://example.com/api/",
		APIKey:     "secret",
		HTTPClient: &http.Client{Transport: rt},
	})
}

func TestFetchEventsBuildsQueryAndDecodesEnvelope(t *testing.T) {
	var captured *http.Request
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `{
			"status": "success",
			"count": 1,
			"data": [
				{
					"id": 501,
					"title": "Home vs Away",
					"date": "2025-10-15 19:00:00",
					"teams": [12, "34"],
					"leagues": [3],
					"seasons": [],
					"venues": ["7"],
					"results": {
						"0": {"goals": "Goals"},
						"12": {"goals": "3", "first": 1, "second": "1", "third": "1", "outcome": ["win"]},
						"34": {"goals": 2, "outcome": "loss"}
					}
				}
			]
		}`), nil
	})

	events, err := client.FetchEvents(context.Background(), providers.EventQuery{
		DateFrom: "2025-10-15",
		DateTo:   "2025-10-20",
		Teams:    "12,34",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if captured.URL.Path != "/api/get-events" {
		t.Fatalf("unexpected path %s", captured.URL.Path)
	}
	q := captured.URL.Query()
	if q.Get("date_from") != "2025-10-15" || q.Get("date_to") != "2025-10-20" || q.Get("teams") != "12,34" {
		t.Fatalf("unexpected query %s", captured.URL.RawQuery)
	}
	if _, ok := q["league"]; ok {
		t.Fatalf("expected empty league to be omitted, got %s", captured.URL.RawQuery)
	}
	if captured.Header.Get("Authorization") != "Bearer secret" {
		t.Fatalf("expected authorization header, got %q", captured.Header.Get("Authorization"))
	}

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.ID != "501" || providers.FirstID(ev.Teams) != "12" || ev.Teams[1] != "34" {
		t.Fatalf("unexpected ids %+v", ev)
	}
	if len(ev.Results) != 2 {
		t.Fatalf("expected header row to be skipped, got %d lines", len(ev.Results))
	}
	if ev.Results["12"].Goals != "3" || ev.Results["12"].Outcome != "win" {
		t.Fatalf("unexpected home line %+v", ev.Results["12"])
	}
	if ev.Results["34"].Goals != "2" {
		t.Fatalf("expected numeric goals to decode, got %+v", ev.Results["34"])
	}
}

func TestFetchEventByIDHitsDetailPath(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/event-by-id/77" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `{"id": "77", "title": "Detail", "date": "2025-10-15 19:00:00", "results": []}`), nil
	})

	ev, err := client.FetchEventByID(context.Background(), "77")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ev.ID != "77" || ev.Results != nil {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestFetchEventByIDNotFound(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"message": "nope"}`), nil
	})

	if _, err := client.FetchEventByID(context.Background(), "1"); !errors.Is(err, providers.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := client.FetchEventByID(context.Background(), " "); !errors.Is(err, providers.ErrNotFound) {
		t.Fatalf("expected not found for blank id, got %v", err)
	}
}

func TestFetchReferenceEndpoints(t *testing.T) {
	paths := map[string]func(*Client) ([]providers.RawEntity, error){
		"/api/get-team":   func(c *Client) ([]providers.RawEntity, error) { return c.FetchTeams(context.Background()) },
		"/api/get-league": func(c *Client) ([]providers.RawEntity, error) { return c.FetchLeagues(context.Background()) },
		"/api/get-season": func(c *Client) ([]providers.RawEntity, error) { return c.FetchSeasons(context.Background()) },
		"/api/get-venue":  func(c *Client) ([]providers.RawEntity, error) { return c.FetchVenues(context.Background()) },
	}
	for path, call := range paths {
		t.Run(path, func(t *testing.T) {
			client := newTestClient(func(req *http.Request) (*http.Response, error) {
				if req.URL.Path != path {
					t.Fatalf("expected %s, got %s", path, req.URL.Path)
				}
				return jsonResponse(http.StatusOK, `{"status":"success","count":1,"data":[{"id":5,"name":"Entity","logo":"https://cdn/x.png"}]}`), nil
			})
			list, err := call(client)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(list) != 1 || list[0].ID != "5" || list[0].Name != "Entity" {
				t.Fatalf("unexpected entities %+v", list)
			}
		})
	}
}

func TestRateLimitedResponseCarriesRetryAfter(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		resp := jsonResponse(http.StatusTooManyRequests, `slow down`)
		resp.Header.Set("Retry-After", "7")
		resp.Header.Set("X-RateLimit-Remaining", "0")
		return resp, nil
	})

	_, err := client.FetchTeams(context.Background())
	rlErr, ok := providers.AsRateLimitError(err)
	if !ok {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if rlErr.RetryAfter != 7*time.Second || rlErr.Remaining != "0" || rlErr.Provider != providerName {
		t.Fatalf("unexpected rate limit error %+v", rlErr)
	}
}

func TestUnexpectedStatusReturnsStatusError(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, "  upstream down  "), nil
	})

	_, err := client.FetchEvents(context.Background(), providers.EventQuery{})
	var statusErr *providers.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected status error, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway || statusErr.Body != "upstream down" {
		t.Fatalf("unexpected status error %+v", statusErr)
	}
	if !statusErr.Temporary() {
		t.Fatalf("expected 5xx to be temporary")
	}
}

func TestDecodeErrorIsWrapped(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{not json`), nil
	})

	if _, err := client.FetchLeagues(context.Background()); err == nil || !strings.Contains(err.Error(), "decode /get-league") {
		t.Fatalf("expected wrapped decode error, got %v", err)
	}
}

func TestTransportErrorPropagates(t *testing.T) {
	boom := errors.New("dial failed")
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, boom
	})

	if _, err := client.FetchVenues(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
