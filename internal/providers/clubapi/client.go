package clubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/providers"
)

// Config controls how the client reaches the club API.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the club's events REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
	now        func() time.Time
}

var _ providers.EventAPI = (*Client)(nil)

// NewClient constructs a club API client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		now:        time.Now,
	}
}

// FetchEvents calls get-events. Empty query fields are left out of the URL.
func (c *Client) FetchEvents(ctx context.Context, q providers.EventQuery) ([]providers.RawEvent, error) {
	params := url.Values{}
	setIf(params, "date_from", q.DateFrom)
	setIf(params, "date_to", q.DateTo)
	setIf(params, "league", q.League)
	setIf(params, "season", q.Season)
	setIf(params, "teams", q.Teams)

	var payload providers.ListResponse[providers.RawEvent]
	if err := c.get(ctx, "/get-events", params, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// FetchEventByID calls event-by-id/{id}.
func (c *Client) FetchEventByID(ctx context.Context, id string) (providers.RawEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return providers.RawEvent{}, providers.ErrNotFound
	}
	var event providers.RawEvent
	if err := c.get(ctx, "/event-by-id/"+url.PathEscape(id), nil, &event); err != nil {
		return providers.RawEvent{}, err
	}
	if event.ID == "" {
		return providers.RawEvent{}, providers.ErrNotFound
	}
	return event, nil
}

func (c *Client) FetchTeams(ctx context.Context) ([]providers.RawEntity, error) {
	return c.fetchEntities(ctx, "/get-team")
}

func (c *Client) FetchLeagues(ctx context.Context) ([]providers.RawEntity, error) {
	return c.fetchEntities(ctx, "/get-league")
}

func (c *Client) FetchSeasons(ctx context.Context) ([]providers.RawEntity, error) {
	return c.fetchEntities(ctx, "/get-season")
}

func (c *Client) FetchVenues(ctx context.Context) ([]providers.RawEntity, error) {
	return c.fetchEntities(ctx, "/get-venue")
}

func (c *Client) fetchEntities(ctx context.Context, path string) ([]providers.RawEntity, error) {
	var payload providers.ListResponse[providers.RawEntity]
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := c.buildRequest(ctx, path, params)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode %s: %w", providerName, path, err)
	}
	return nil
}

func (c *Client) buildRequest(ctx context.Context, path string, params url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

func (c *Client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return providers.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Remaining:  resp.Header.Get("X-RateLimit-Remaining"),
			Message:    "club api rate limited",
		}
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	return &providers.StatusError{
		Provider:   providerName,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

func setIf(params url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		params.Set(key, value)
	}
}
