package gamedata

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/preston-bernstein/club-games-service/internal/providers"
)

// GameQuery filters a getGames call.
type GameQuery struct {
	DateFrom string
	DateTo   string
	League   string
	Season   string
	// Teams is a comma, whitespace or pipe delimited list of team ids.
	Teams string
	// F2F asks for head-to-head games between the listed teams.
	F2F bool
	// BypassCache skips the cached answer and does not store the fresh one.
	BypassCache bool
}

var teamSeparators = regexp.MustCompile(`[,\s|]+`)

// NormalizeTeams splits a team list on any separator and re-joins it with
// "|" for head-to-head queries and "," otherwise.
func NormalizeTeams(teams string, f2f bool) string {
	parts := teamSeparators.Split(strings.TrimSpace(teams), -1)
	ids := parts[:0]
	for _, p := range parts {
		if p != "" {
			ids = append(ids, p)
		}
	}
	sep := ","
	if f2f {
		sep = "|"
	}
	return strings.Join(ids, sep)
}

// QueryKey is the canonical signature of q: every field as key=value, keys
// sorted, values escaped. Two queries share a key exactly when they would
// issue the same request with the same caching behaviour.
func QueryKey(q GameQuery) string {
	v := url.Values{}
	v.Set("date_from", strings.TrimSpace(q.DateFrom))
	v.Set("date_to", strings.TrimSpace(q.DateTo))
	v.Set("league", strings.TrimSpace(q.League))
	v.Set("season", strings.TrimSpace(q.Season))
	v.Set("teams", NormalizeTeams(q.Teams, q.F2F))
	v.Set("f2f", strconv.FormatBool(q.F2F))
	v.Set("useCache", strconv.FormatBool(!q.BypassCache))
	return v.Encode()
}

// remote translates q into the upstream get-events query.
func (q GameQuery) remote() providers.EventQuery {
	return providers.EventQuery{
		DateFrom: strings.TrimSpace(q.DateFrom),
		DateTo:   strings.TrimSpace(q.DateTo),
		League:   strings.TrimSpace(q.League),
		Season:   strings.TrimSpace(q.Season),
		Teams:    NormalizeTeams(q.Teams, q.F2F),
	}
}
