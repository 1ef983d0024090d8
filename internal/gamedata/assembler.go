package gamedata

import (
	"time"

	"github.com/preston-bernstein/club-games-service/internal/domain/games"
	"github.com/preston-bernstein/club-games-service/internal/domain/reference"
	"github.com/preston-bernstein/club-games-service/internal/providers"
	"github.com/preston-bernstein/club-games-service/internal/timeutil"
)

// LogoLookup resolves a team id to a locally stored logo URI.
type LogoLookup interface {
	LogoURI(id string) string
}

// Assembler turns raw events into display-ready games. It holds no mutable
// state; output depends only on its inputs.
type Assembler struct {
	loc   *time.Location
	logos LogoLookup
}

// NewAssembler builds an assembler rendering times in loc.
func NewAssembler(loc *time.Location, logos LogoLookup) *Assembler {
	if loc == nil {
		loc = time.UTC
	}
	return &Assembler{loc: loc, logos: logos}
}

// Assemble denormalizes raw against refs as of now.
func (a *Assembler) Assemble(raw providers.RawEvent, refs ReferenceMaps, now time.Time) games.Game {
	g := games.Game{
		ID:          raw.ID.String(),
		Title:       raw.Title,
		VideoURL:    raw.Video,
		Protocol:    raw.Protocol,
		PlayerStats: raw.PlayerStats,
		HomeScore:   games.ZeroScore,
		AwayScore:   games.ZeroScore,
	}

	if t, err := timeutil.ParseEventTime(raw.Date, a.loc); err == nil {
		g.EventDate = t
		g.Date = displayDate(t, a.loc)
		g.Time = displayTime(t, a.loc)
	}

	if len(raw.Teams) > 0 {
		g.HomeTeamID = raw.Teams[0].String()
	}
	if len(raw.Teams) > 1 {
		g.AwayTeamID = raw.Teams[1].String()
	}
	g.HomeTeam, g.HomeTeamName, g.HomeTeamLogo = a.team(g.HomeTeamID, refs)
	g.AwayTeam, g.AwayTeamName, g.AwayTeamLogo = a.team(g.AwayTeamID, refs)

	g.LeagueID = providers.FirstID(raw.Leagues)
	g.SeasonID = providers.FirstID(raw.Seasons)
	g.VenueID = providers.FirstID(raw.Venues)
	if l, ok := refs.Leagues[g.LeagueID]; ok {
		g.League = &l
		g.LeagueName = l.Name
	} else if g.LeagueID == "" {
		g.LeagueName = games.FriendlyLeagueName
	}
	if s, ok := refs.Seasons[g.SeasonID]; ok {
		g.Season = &s
		g.SeasonName = s.Name
	}
	if v, ok := refs.Venues[g.VenueID]; ok {
		g.Venue = &v
		g.VenueName = v.Name
	}

	g.HasResults = len(raw.Results) > 0
	home, homeOK := raw.Results[g.HomeTeamID]
	away, awayOK := raw.Results[g.AwayTeamID]
	if g.HasResults && homeOK && awayOK && g.HomeTeamID != "" && g.AwayTeamID != "" {
		g.HomeScore = games.NewScore(home.Goals.String())
		g.AwayScore = games.NewScore(away.Goals.String())
		g.HomeOutcome = games.Outcome(home.Outcome)
		g.AwayOutcome = games.Outcome(away.Outcome)
		g.HomePeriods = periods(home)
		g.AwayPeriods = periods(away)
	}

	g.Status = StatusAt(g, now, a.loc).Status
	return g
}

func (a *Assembler) team(id string, refs ReferenceMaps) (*reference.Team, string, string) {
	var logo string
	if a.logos != nil && id != "" {
		logo = a.logos.LogoURI(id)
	}
	t, ok := refs.Teams[id]
	if !ok || id == "" {
		return nil, games.UnknownTeamName, logo
	}
	if logo == "" {
		logo = t.LogoURL
	}
	return &t, t.Name, logo
}

func periods(r providers.TeamResult) [games.PeriodCount]string {
	return [games.PeriodCount]string{r.First.String(), r.Second.String(), r.Third.String()}
}
