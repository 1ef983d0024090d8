package fixture

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/providers"
	"github.com/preston-bernstein/club-games-service/internal/timeutil"
)

// ClubTeamID is the fixture id of the home club.
const ClubTeamID = "1"

// API serves a static, clock-relative set of events and reference entities
// useful for local testing and bootstrapping.
type API struct {
	now func() time.Time
	loc *time.Location
}

var _ providers.EventAPI = (*API)(nil)

// New creates a fixture API whose events are laid out around now in loc.
func New(loc *time.Location) *API {
	if loc == nil {
		loc = time.UTC
	}
	return &API{
		now: time.Now,
		loc: loc,
	}
}

// FetchEvents returns the fixture events matching the query.
func (a *API) FetchEvents(ctx context.Context, q providers.EventQuery) ([]providers.RawEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]providers.RawEvent, 0)
	for _, ev := range a.events() {
		if matches(ev, q) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// FetchEventByID returns one fixture event, with its protocol attached.
func (a *API) FetchEventByID(ctx context.Context, id string) (providers.RawEvent, error) {
	if err := ctx.Err(); err != nil {
		return providers.RawEvent{}, err
	}
	for _, ev := range a.events() {
		if ev.ID.String() == id {
			ev.Protocol = json.RawMessage(`[{"period":1,"minute":"12:40","event":"goal"}]`)
			return ev, nil
		}
	}
	return providers.RawEvent{}, providers.ErrNotFound
}

func (a *API) FetchTeams(ctx context.Context) ([]providers.RawEntity, error) {
	return []providers.RawEntity{
		{ID: ClubTeamID, Name: "Северные Волки", ShortName: "СВ", City: "Москва", Logo: "https://cdn.example.com/logos/1.png"},
		{ID: "2", Name: "Речные Щуки", ShortName: "РЩ", City: "Тверь", Logo: "https://cdn.example.com/logos/2.png"},
		{ID: "3", Name: "Горные Барсы", ShortName: "ГБ", City: "Казань"},
		{ID: "4", Name: "Лесные Рыси", ShortName: "ЛР", City: "Ярославль"},
	}, ctx.Err()
}

func (a *API) FetchLeagues(ctx context.Context) ([]providers.RawEntity, error) {
	return []providers.RawEntity{{ID: "10", Name: "Первенство города"}}, ctx.Err()
}

func (a *API) FetchSeasons(ctx context.Context) ([]providers.RawEntity, error) {
	return []providers.RawEntity{{ID: "20", Name: "2025/2026"}}, ctx.Err()
}

func (a *API) FetchVenues(ctx context.Context) ([]providers.RawEntity, error) {
	return []providers.RawEntity{{ID: "30", Name: "Ледовая арена", Address: "ул. Спортивная, 1"}}, ctx.Err()
}

func (a *API) events() []providers.RawEvent {
	now := a.now().In(a.loc)
	hour := now.Truncate(time.Hour)
	day := timeutil.StartOfDay(now, a.loc)
	at := func(t time.Time) string { return t.Format(timeutil.EventLayout) }

	return []providers.RawEvent{
		{
			ID: "9001", Title: "Северные Волки — Речные Щуки",
			Date:    at(day.AddDate(0, 0, -1).Add(19 * time.Hour)),
			Teams:   ids(ClubTeamID, "2"),
			Leagues: ids("10"), Seasons: ids("20"), Venues: ids("30"),
			Results: providers.Results{
				ClubTeamID: {Goals: "4", First: "1", Second: "2", Third: "1", Outcome: "win"},
				"2":        {Goals: "2", First: "0", Second: "1", Third: "1", Outcome: "loss"},
			},
			Video: "https://video.example.com/9001",
		},
		{
			ID: "9002", Title: "Горные Барсы — Северные Волки",
			Date:    at(hour.Add(-30 * time.Minute)),
			Teams:   ids("3", ClubTeamID),
			Leagues: ids("10"), Seasons: ids("20"), Venues: ids("30"),
		},
		{
			ID: "9003", Title: "Северные Волки — Лесные Рыси",
			Date:  at(hour.Add(3 * time.Hour)),
			Teams: ids(ClubTeamID, "4"),
		},
		{
			ID: "9004", Title: "Речные Щуки — Северные Волки",
			Date:    at(day.AddDate(0, 0, 2).Add(18 * time.Hour)),
			Teams:   ids("2", ClubTeamID),
			Leagues: ids("10"), Seasons: ids("20"), Venues: ids("30"),
		},
		{
			ID: "9005", Title: "Северные Волки — Горные Барсы",
			Date:    at(day.AddDate(0, 0, 10).Add(19 * time.Hour)),
			Teams:   ids(ClubTeamID, "3"),
			Leagues: ids("10"), Seasons: ids("20"), Venues: ids("30"),
		},
		{
			ID: "9006", Title: "Лесные Рыси — Речные Щуки",
			Date:  at(day.AddDate(0, 0, 1).Add(17 * time.Hour)),
			Teams: ids("4", "2"),
		},
	}
}

func matches(ev providers.RawEvent, q providers.EventQuery) bool {
	day := ev.Date
	if len(day) >= len(timeutil.DateLayout) {
		day = day[:len(timeutil.DateLayout)]
	}
	if q.DateFrom != "" && day < q.DateFrom {
		return false
	}
	if q.DateTo != "" && day > q.DateTo {
		return false
	}
	if q.League != "" && providers.FirstID(ev.Leagues) != q.League {
		return false
	}
	if q.Season != "" && providers.FirstID(ev.Seasons) != q.Season {
		return false
	}
	if q.Teams == "" {
		return true
	}
	// "a|b" asks for head-to-head games, "a,b" for games of any listed team.
	headToHead := strings.Contains(q.Teams, "|")
	wanted := strings.FieldsFunc(q.Teams, func(r rune) bool { return r == '|' || r == ',' })
	hits := 0
	for _, id := range wanted {
		if hasTeam(ev, id) {
			hits++
		}
	}
	if headToHead {
		return hits == len(wanted)
	}
	return hits > 0
}

func hasTeam(ev providers.RawEvent, id string) bool {
	for _, t := range ev.Teams {
		if t.String() == id {
			return true
		}
	}
	return false
}

func ids(values ...string) []providers.FlexString {
	out := make([]providers.FlexString, len(values))
	for i, v := range values {
		out[i] = providers.FlexString(v)
	}
	return out
}
