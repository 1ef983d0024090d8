package config

import "time"

// ClubAPIConfig controls how we talk to the club events API.
type ClubAPIConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

func defaultClubAPI() ClubAPIConfig {
	return ClubAPIConfig{
		BaseURL: defaultClubBaseURL,
		Timeout: defaultClubTimeout,
	}
}

func (c *ClubAPIConfig) applyEnv() {
	c.BaseURL = envOrDefault(envClubBaseURL, c.BaseURL)
	c.APIKey = envOrDefault(envClubAPIKey, c.APIKey)
	c.Timeout = durationEnvOrDefault(envClubTimeout, c.Timeout)
}
