package config

import "time"

const (
	envConfigFile       = "CONFIG_FILE"
	envPort             = "PORT"
	envProvider         = "PROVIDER"
	envClubBaseURL      = "CLUB_API_BASE_URL"
	envClubAPIKey       = "CLUB_API_KEY"
	envClubTimeout      = "CLUB_API_TIMEOUT"
	envPrimaryTeamID    = "PRIMARY_TEAM_ID"
	envClubTimezone     = "CLUB_TIMEZONE"
	envGamesTTL         = "GAMES_CACHE_TTL"
	envDetailTTL        = "GAME_DETAIL_CACHE_TTL"
	envMasterTTL        = "MASTER_CACHE_TTL"
	envGamesCacheSize   = "GAMES_CACHE_SIZE"
	envDetailCacheSize  = "DETAIL_CACHE_SIZE"
	envMasterWindowDays = "MASTER_WINDOW_DAYS"
	envReferenceMaxAge  = "REFERENCE_MAX_AGE"
	envKVBackend        = "KV_BACKEND"
	envKVFSDir          = "KV_FS_DIR"
	envRedisAddr        = "REDIS_ADDR"
	envRedisPassword    = "REDIS_PASSWORD"
	envRedisDB          = "REDIS_DB"
	envRedisPrefix      = "REDIS_PREFIX"
	envSQLitePath       = "SQLITE_PATH"
	envRetryMaxAttempts = "RETRY_MAX_ATTEMPTS"
	envRetryInitial     = "RETRY_INITIAL_INTERVAL"
	envWarmEnabled      = "WARM_ENABLED"
	envWarmInterval     = "WARM_INTERVAL"
	envAdminToken       = "ADMIN_TOKEN"
	envLogLevel         = "LOG_LEVEL"
	envLogFormat        = "LOG_FORMAT"
	envMetricsPort      = "METRICS_PORT"
	envMetricsOn        = "METRICS_ENABLED"
	envOtelEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService      = "OTEL_SERVICE_NAME"
	envOtelInsecure     = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort           = "4000"
	defaultProvider       = "fixture"
	defaultClubBaseURL    = "https://api.hc-club.example/wp-json/club/v1"
	defaultClubTimeout    = 10 * time.Second
	defaultClubTimezone   = "Europe/Moscow"
	defaultGamesTTL       = 5 * time.Minute
	defaultDetailTTL      = 10 * time.Minute
	defaultMasterTTL      = 5 * time.Minute
	defaultGamesCacheSize = 64
	defaultDetailCache    = 256
	defaultMasterWindow   = 137
	defaultKVBackend      = "memory"
	defaultKVFSDir        = "data/kv"
	defaultSQLitePath     = "data/club-games.db"
	defaultRetryAttempts  = 3
	defaultRetryInitial   = 200 * time.Millisecond
	defaultWarmEnabled    = true
	// Below the master cache TTL so the snapshot is refreshed before it expires.
	defaultWarmInterval = 4 * time.Minute
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"
	defaultMetricsPort  = "9090"
	defaultServiceName  = "club-games-service"
)
