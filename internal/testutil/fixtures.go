package testutil

import (
	"time"

	"github.com/preston-bernstein/club-games-service/internal/providers"
	"github.com/preston-bernstein/club-games-service/internal/timeutil"
)

// RawEventAt builds a raw event between two teams kicking off at t.
func RawEventAt(id string, t time.Time, home, away string) providers.RawEvent {
	return providers.RawEvent{
		ID:    providers.FlexString(id),
		Title: home + " vs " + away,
		Date:  t.Format(timeutil.EventLayout),
		Teams: []providers.FlexString{providers.FlexString(home), providers.FlexString(away)},
	}
}

// SampleTeams returns two reference team entries with ids "1" and "2".
func SampleTeams() []providers.RawEntity {
	return []providers.RawEntity{
		{ID: "1", Name: "Home", Logo: "https://cdn.example.com/1.png"},
		{ID: "2", Name: "Away"},
	}
}
