package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port       string        `yaml:"port"`
	Provider   string        `yaml:"provider"`
	AdminToken string        `yaml:"admin_token"`
	ClubAPI    ClubAPIConfig `yaml:"club_api"`
	Games      GamesConfig   `yaml:"games"`
	Store      StoreConfig   `yaml:"store"`
	Retry      RetryConfig   `yaml:"retry"`
	Warm       WarmConfig    `yaml:"warm"`
	Log        LogConfig     `yaml:"log"`
	Metrics    MetricsConfig `yaml:"metrics"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:     defaultPort,
		Provider: defaultProvider,
		ClubAPI:  defaultClubAPI(),
		Games:    defaultGames(),
		Store:    defaultStore(),
		Retry:    defaultRetry(),
		Warm:     defaultWarm(),
		Log:      LogConfig{Level: defaultLogLevel, Format: defaultLogFormat},
		Metrics:  defaultMetrics(),
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE if any, then environment variables. Env always wins.
func Load() (Config, error) {
	cfg := Default()
	if path := strings.TrimSpace(os.Getenv(envConfigFile)); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envOrDefault(envPort, cfg.Port)
	cfg.Provider = envOrDefault(envProvider, cfg.Provider)
	cfg.AdminToken = envOrDefault(envAdminToken, cfg.AdminToken)
	cfg.Log.Level = envOrDefault(envLogLevel, cfg.Log.Level)
	cfg.Log.Format = envOrDefault(envLogFormat, cfg.Log.Format)
	cfg.ClubAPI.applyEnv()
	cfg.Games.applyEnv()
	cfg.Store.applyEnv()
	cfg.Retry.applyEnv()
	cfg.Warm.applyEnv()
	cfg.Metrics.applyEnv()
}
