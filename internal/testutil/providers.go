package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/club-games-service/internal/providers"
)

// StubAPI is a test double for providers.EventAPI that counts calls.
// When Gate is set, FetchEvents signals Entered (if set) and then blocks
// until Gate is closed or ctx ends.
type StubAPI struct {
	mu       sync.Mutex
	Events   []providers.RawEvent
	Details  map[string]providers.RawEvent
	Teams    []providers.RawEntity
	Leagues  []providers.RawEntity
	Seasons  []providers.RawEntity
	Venues   []providers.RawEntity
	EventErr error
	RefErr   error

	Gate    chan struct{}
	Entered chan struct{}

	EventCalls  atomic.Int32
	DetailCalls atomic.Int32
	TeamCalls   atomic.Int32
	LeagueCalls atomic.Int32
	SeasonCalls atomic.Int32
	VenueCalls  atomic.Int32

	lastQuery providers.EventQuery
}

var _ providers.EventAPI = (*StubAPI)(nil)

// SetEvents swaps the events returned by later calls.
func (s *StubAPI) SetEvents(events []providers.RawEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = events
}

// SetEventErr swaps the error returned by later event calls.
func (s *StubAPI) SetEventErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.EventErr = err
}

// LastQuery returns the most recent FetchEvents query.
func (s *StubAPI) LastQuery() providers.EventQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

func (s *StubAPI) FetchEvents(ctx context.Context, q providers.EventQuery) ([]providers.RawEvent, error) {
	s.EventCalls.Add(1)
	if s.Gate != nil {
		if s.Entered != nil {
			select {
			case s.Entered <- struct{}{}:
			default:
			}
		}
		select {
		case <-s.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery = q
	if s.EventErr != nil {
		return nil, s.EventErr
	}
	return s.Events, nil
}

func (s *StubAPI) FetchEventByID(ctx context.Context, id string) (providers.RawEvent, error) {
	s.DetailCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.EventErr != nil {
		return providers.RawEvent{}, s.EventErr
	}
	if ev, ok := s.Details[id]; ok {
		return ev, nil
	}
	for _, ev := range s.Events {
		if ev.ID.String() == id {
			return ev, nil
		}
	}
	return providers.RawEvent{}, providers.ErrNotFound
}

func (s *StubAPI) FetchTeams(ctx context.Context) ([]providers.RawEntity, error) {
	s.TeamCalls.Add(1)
	return s.Teams, s.RefErr
}

func (s *StubAPI) FetchLeagues(ctx context.Context) ([]providers.RawEntity, error) {
	s.LeagueCalls.Add(1)
	return s.Leagues, s.RefErr
}

func (s *StubAPI) FetchSeasons(ctx context.Context) ([]providers.RawEntity, error) {
	s.SeasonCalls.Add(1)
	return s.Seasons, s.RefErr
}

func (s *StubAPI) FetchVenues(ctx context.Context) ([]providers.RawEntity, error) {
	s.VenueCalls.Add(1)
	return s.Venues, s.RefErr
}
