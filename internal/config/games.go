package config

import "time"

// GamesConfig tunes the game data caches.
type GamesConfig struct {
	PrimaryTeamID    string        `yaml:"primary_team_id"`
	Timezone         string        `yaml:"timezone"`
	GamesTTL         time.Duration `yaml:"games_ttl"`
	DetailTTL        time.Duration `yaml:"detail_ttl"`
	MasterTTL        time.Duration `yaml:"master_ttl"`
	GamesCacheSize   int           `yaml:"games_cache_size"`
	DetailCacheSize  int           `yaml:"detail_cache_size"`
	MasterWindowDays int           `yaml:"master_window_days"`
	// ReferenceMaxAge of zero keeps persisted reference snapshots forever.
	ReferenceMaxAge time.Duration `yaml:"reference_max_age"`
}

func defaultGames() GamesConfig {
	return GamesConfig{
		Timezone:         defaultClubTimezone,
		GamesTTL:         defaultGamesTTL,
		DetailTTL:        defaultDetailTTL,
		MasterTTL:        defaultMasterTTL,
		GamesCacheSize:   defaultGamesCacheSize,
		DetailCacheSize:  defaultDetailCache,
		MasterWindowDays: defaultMasterWindow,
	}
}

func (g *GamesConfig) applyEnv() {
	g.PrimaryTeamID = envOrDefault(envPrimaryTeamID, g.PrimaryTeamID)
	g.Timezone = envOrDefault(envClubTimezone, g.Timezone)
	g.GamesTTL = durationEnvOrDefault(envGamesTTL, g.GamesTTL)
	g.DetailTTL = durationEnvOrDefault(envDetailTTL, g.DetailTTL)
	g.MasterTTL = durationEnvOrDefault(envMasterTTL, g.MasterTTL)
	g.GamesCacheSize = intEnvOrDefault(envGamesCacheSize, g.GamesCacheSize)
	g.DetailCacheSize = intEnvOrDefault(envDetailCacheSize, g.DetailCacheSize)
	g.MasterWindowDays = intEnvOrDefault(envMasterWindowDays, g.MasterWindowDays)
	g.ReferenceMaxAge = durationEnvOrDefault(envReferenceMaxAge, g.ReferenceMaxAge)
}
