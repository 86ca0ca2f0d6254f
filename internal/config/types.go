package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
	// Warnings collects non-fatal problems such as unknown keys.
	Warnings []string
}

// Default values.
const (
	DefaultStorageBackend = "file"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultTimeFormat     = "Jan 2, 2006 3:04 PM"
)

// Config holds the full configuration for ticklist.
type Config struct {
	// Storage
	StorageBackend string `toml:"storage_backend"`
	StoragePath    string `toml:"storage_path"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogFile       string `toml:"log_file"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// Display
	TimeFormat string `toml:"time_format"`

	// Base directory for default paths (computed, ~/.ticklist unless overridden)
	HomeDir string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"storage_backend",
		"storage_path",
		"log_level",
		"log_format",
		"log_file",
		"log_timestamps",
		"time_format",
	}
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}

// Value returns the effective value of a field as a string.
func (c *Config) Value(field string) string {
	switch field {
	case "storage_backend":
		return c.StorageBackend
	case "storage_path":
		return c.StoragePath
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_file":
		return c.LogFile
	case "log_timestamps":
		if c.LogTimestamps {
			return "true"
		}
		return "false"
	case "time_format":
		return c.TimeFormat
	}
	return ""
}
