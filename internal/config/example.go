package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# ticklist configuration file
# Values can be overridden by TICKLIST_* environment variables or CLI flags

# Where tasks are stored: file, sqlite, or memory
storage_backend = "file"

# Storage location (supports ~ expansion and %VAR% on Windows)
# Defaults to ~/.ticklist/storage.json, or ~/.ticklist/storage.db for sqlite
# storage_path = "~/.ticklist/storage.json"

# Logging: debug, info, warn, error
log_level = "info"

# Log format: text, json, logfmt
log_format = "text"

# Log file used while the terminal UI is running
# log_file = "~/.ticklist/ticklist.log"

# Show timestamps in logs
log_timestamps = false

# Go time layout used to show due dates
time_format = "Jan 2, 2006 3:04 PM"
`
}
