package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// lookupEnv returns the trimmed value of key; blank values count as unset.
func lookupEnv(key string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	return raw, raw != ""
}

func envOrDefault(key, defaultValue string) string {
	if val, ok := lookupEnv(key); ok {
		return val
	}
	return defaultValue
}

// durationEnvOrDefault keeps the default for unparsable or non-positive values.
func durationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	raw, ok := lookupEnv(key)
	if !ok {
		return defaultValue
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

// intEnvOrDefault keeps the default for unparsable or non-positive values.
func intEnvOrDefault(key string, defaultValue int) int {
	raw, ok := lookupEnv(key)
	if !ok {
		return defaultValue
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return defaultValue
	}
	return val
}

func boolEnvOrDefault(key string, defaultValue bool) bool {
	raw, ok := lookupEnv(key)
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}
