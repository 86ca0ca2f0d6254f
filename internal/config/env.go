package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from TICKLIST_* environment variables and
// updates source tracking.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setEnv := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TICKLIST_HOME"); v != "" {
		cfg.HomeDir = v
	}
	if v := os.Getenv("TICKLIST_STORAGE"); v != "" {
		cfg.StorageBackend = v
		setEnv("storage_backend")
	}
	if v := os.Getenv("TICKLIST_STORAGE_PATH"); v != "" {
		cfg.StoragePath = v
		setEnv("storage_path")
	}

	// Logging configuration
	if v := os.Getenv("TICKLIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TICKLIST_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TICKLIST_LOG_FILE"); v != "" {
		cfg.LogFile = v
		setEnv("log_file")
	}
	if v := os.Getenv("TICKLIST_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}

	if v := os.Getenv("TICKLIST_TIME_FORMAT"); v != "" {
		cfg.TimeFormat = v
		setEnv("time_format")
	}
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
