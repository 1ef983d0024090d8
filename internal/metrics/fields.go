package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod   = "method"
	AttrPath     = "path"
	AttrStatus   = "status"
	AttrProvider = "provider"
	AttrCache    = "cache"
	AttrResult   = "result"
	AttrKind     = "kind"
	AttrSource   = "source"
)

// Cache names used when recording lookups.
const (
	CacheGames   = "games"
	CacheDetails = "game_details"
	CacheMaster  = "master_upcoming"
)
