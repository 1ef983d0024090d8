package gamedata

import (
	"time"

	"github.com/preston-bernstein/club-games-service/internal/domain/games"
	"github.com/preston-bernstein/club-games-service/internal/timeutil"
)

const (
	liveLead   = 5 * time.Minute
	liveTail   = 90 * time.Minute
	soonWithin = 3 // days
)

// StatusInfo is the status of a game at a given moment plus the flags the
// sort order needs.
type StatusInfo struct {
	Status        games.Status
	IsLive        bool
	IsToday       bool
	IsWithin3Days bool
}

// DeriveStatus applies the shared status rule. A published outcome means
// finished; otherwise the game is live from five minutes before kickoff to
// ninety minutes after, finished past that, and upcoming before it. A game
// without a parseable kickoff is upcoming with no flags.
func DeriveStatus(eventDate time.Time, home, away games.Outcome, now time.Time, loc *time.Location) StatusInfo {
	if home.Valid() || away.Valid() {
		return StatusInfo{Status: games.StatusFinished}
	}
	if eventDate.IsZero() {
		return StatusInfo{Status: games.StatusUpcoming}
	}

	liveStart := eventDate.Add(-liveLead)
	liveEnd := eventDate.Add(liveTail)
	switch {
	case !now.Before(liveStart) && !now.After(liveEnd):
		return StatusInfo{Status: games.StatusLive, IsLive: true}
	case now.After(liveEnd):
		return StatusInfo{Status: games.StatusFinished}
	}

	days := timeutil.DayDiff(now, eventDate, loc)
	return StatusInfo{
		Status:        games.StatusUpcoming,
		IsToday:       days == 0,
		IsWithin3Days: days >= 0 && days <= soonWithin,
	}
}

// StatusAt re-derives g's status at now.
func StatusAt(g games.Game, now time.Time, loc *time.Location) StatusInfo {
	return DeriveStatus(g.EventDate, g.HomeOutcome, g.AwayOutcome, now, loc)
}
