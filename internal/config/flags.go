package config

import (
	"flag"
)

// parseFlags defines the global CLI flags on fs, parses args, and applies
// only the flags that were explicitly set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("ticklist", flag.ContinueOnError)
	}

	var (
		backend, storagePath         string
		logLevel, logFormat, logFile string
		logTimestamps                bool
		timeFormat                   string
	)

	// Storage
	fs.StringVar(&backend, "storage", cfg.StorageBackend, "Storage backend (file, sqlite, memory)")
	fs.StringVar(&storagePath, "storage-path", cfg.StoragePath, "Storage file or database path")

	// Logging
	fs.StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.StringVar(&logFile, "log-file", cfg.LogFile, "Log file used while the TUI is running")
	fs.BoolVar(&logTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")

	// Display
	fs.StringVar(&timeFormat, "time-format", cfg.TimeFormat, "Go time layout for due dates")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"storage":        "storage_backend",
		"storage-path":   "storage_path",
		"log-level":      "log_level",
		"log-format":     "log_format",
		"log-file":       "log_file",
		"log-timestamps": "log_timestamps",
		"time-format":    "time_format",
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "storage":
			cfg.StorageBackend = backend
		case "storage-path":
			cfg.StoragePath = storagePath
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-format":
			cfg.LogFormat = logFormat
		case "log-file":
			cfg.LogFile = logFile
		case "log-timestamps":
			cfg.LogTimestamps = logTimestamps
		case "time-format":
			cfg.TimeFormat = timeFormat
		default:
			return
		}
		if sources != nil {
			if fieldName, ok := flagToSource[f.Name]; ok {
				sources[fieldName] = SourceFlag
			}
		}
	})

	return nil
}
