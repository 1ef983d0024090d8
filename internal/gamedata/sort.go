package gamedata

import (
	"sort"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/domain/games"
)

// sortRank orders live games first, then upcoming today, then upcoming
// within three days, then everything else.
func sortRank(info StatusInfo) int {
	switch {
	case info.IsLive:
		return 0
	case info.Status == games.StatusUpcoming && info.IsToday:
		return 1
	case info.Status == games.StatusUpcoming && info.IsWithin3Days:
		return 2
	default:
		return 3
	}
}

type rankedGame struct {
	rank int
	game games.Game
}

// SortGames orders list in place by rank, then ascending event date.
func SortGames(list []games.Game, now time.Time, loc *time.Location) {
	ranked := make([]rankedGame, len(list))
	for i, g := range list {
		ranked[i] = rankedGame{rank: sortRank(StatusAt(g, now, loc)), game: g}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].rank != ranked[j].rank {
			return ranked[i].rank < ranked[j].rank
		}
		return ranked[i].game.EventDate.Before(ranked[j].game.EventDate)
	})

	for i := range ranked {
		list[i] = ranked[i].game
	}
}

// sortByDate orders list in place by ascending event date.
func sortByDate(list []games.Game) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].EventDate.Before(list[j].EventDate)
	})
}
