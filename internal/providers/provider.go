package providers

import "context"

// EventQuery is the remote shape of a get-events request. Empty fields are omitted.
type EventQuery struct {
	DateFrom string
	DateTo   string
	League   string
	Season   string
	Teams    string
}

// EventAPI is the remote club events API the game data layer consumes.
type EventAPI interface {
	FetchEvents(ctx context.Context, q EventQuery) ([]RawEvent, error)
	FetchEventByID(ctx context.Context, id string) (RawEvent, error)
	ReferenceAPI
}

// ReferenceAPI fetches the reference entity lists (get-team, get-league, get-season, get-venue).
type ReferenceAPI interface {
	FetchTeams(ctx context.Context) ([]RawEntity, error)
	FetchLeagues(ctx context.Context) ([]RawEntity, error)
	FetchSeasons(ctx context.Context) ([]RawEntity, error)
	FetchVenues(ctx context.Context) ([]RawEntity, error)
}
