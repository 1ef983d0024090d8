package games

import (
	"encoding/json"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/domain/reference"
)

// Status is the lifecycle state of a game as seen at a given moment.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
	StatusFinished Status = "finished"
)

// Outcome is a team's result in a finished game. The zero value means no outcome was published.
type Outcome string

const (
	OutcomeWin     Outcome = "win"
	OutcomeLoss    Outcome = "loss"
	OutcomeDraw    Outcome = "draw"
	OutcomeUnknown Outcome = "unknown"
)

// Valid reports whether the outcome carries an actual result.
func (o Outcome) Valid() bool {
	return o != "" && o != OutcomeUnknown
}

// PeriodCount is the number of regulation periods tracked per team.
const PeriodCount = 3

// FriendlyLeagueName is displayed when a game has no league attached.
const FriendlyLeagueName = "Товарищеский матч"

// UnknownTeamName is displayed when a team id is missing from the reference map.
const UnknownTeamName = "Команда не найдена"

// Game is the denormalized, display-ready record for one event.
type Game struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	EventDate time.Time `json:"event_date"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Status    Status    `json:"status"`

	HomeTeamID   string          `json:"homeTeamId"`
	AwayTeamID   string          `json:"awayTeamId"`
	HomeTeam     *reference.Team `json:"homeTeam,omitempty"`
	AwayTeam     *reference.Team `json:"awayTeam,omitempty"`
	HomeTeamName string          `json:"homeTeamName"`
	AwayTeamName string          `json:"awayTeamName"`
	HomeTeamLogo string          `json:"homeTeamLogo,omitempty"`
	AwayTeamLogo string          `json:"awayTeamLogo,omitempty"`

	HasResults  bool                `json:"hasResults"`
	HomeScore   Score               `json:"homeScore"`
	AwayScore   Score               `json:"awayScore"`
	HomeOutcome Outcome             `json:"homeOutcome,omitempty"`
	AwayOutcome Outcome             `json:"awayOutcome,omitempty"`
	HomePeriods [PeriodCount]string `json:"homePeriods"`
	AwayPeriods [PeriodCount]string `json:"awayPeriods"`

	League     *reference.League `json:"league,omitempty"`
	Season     *reference.Season `json:"season,omitempty"`
	Venue      *reference.Venue  `json:"venue,omitempty"`
	LeagueID   string            `json:"leagueId"`
	SeasonID   string            `json:"seasonId"`
	VenueID    string            `json:"venueId"`
	LeagueName string            `json:"leagueName"`
	SeasonName string            `json:"seasonName"`
	VenueName  string            `json:"venueName"`

	VideoURL    string          `json:"videoUrl,omitempty"`
	Protocol    json.RawMessage `json:"protocol,omitempty"`
	PlayerStats json.RawMessage `json:"playerStats,omitempty"`
}
