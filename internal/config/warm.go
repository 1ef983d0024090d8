package config

import "time"

// RetryConfig bounds upstream retries.
type RetryConfig struct {
	MaxAttempts     int           `yaml:"max_attempts"`
	InitialInterval time.Duration `yaml:"initial_interval"`
}

// WarmConfig controls the master cache warmer.
type WarmConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

func defaultRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:     defaultRetryAttempts,
		InitialInterval: defaultRetryInitial,
	}
}

func defaultWarm() WarmConfig {
	return WarmConfig{
		Enabled:  defaultWarmEnabled,
		Interval: defaultWarmInterval,
	}
}

func (r *RetryConfig) applyEnv() {
	r.MaxAttempts = intEnvOrDefault(envRetryMaxAttempts, r.MaxAttempts)
	r.InitialInterval = durationEnvOrDefault(envRetryInitial, r.InitialInterval)
}

func (w *WarmConfig) applyEnv() {
	w.Enabled = boolEnvOrDefault(envWarmEnabled, w.Enabled)
	w.Interval = durationEnvOrDefault(envWarmInterval, w.Interval)
}
