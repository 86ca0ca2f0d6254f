// Package appdir provides constants and utilities for the .ticklist directory structure.
package appdir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the ticklist state directory.
	Dir = ".ticklist"

	// DefaultStorageFile is the default key-value file for the file backend (inside .ticklist).
	DefaultStorageFile = "storage.json"

	// DefaultDatabaseFile is the default database file for the sqlite backend (inside .ticklist).
	DefaultDatabaseFile = "storage.db"

	// DefaultConfigFile is the default config file name (inside .ticklist).
	DefaultConfigFile = "ticklist.toml"

	// DefaultLogFile is the default log file used while the TUI owns the terminal.
	DefaultLogFile = "ticklist.log"
)

// StoragePath returns the storage file inside the state directory home.
func StoragePath(home string) string {
	return filepath.Join(home, DefaultStorageFile)
}

// DatabasePath returns the sqlite database inside the state directory home.
func DatabasePath(home string) string {
	return filepath.Join(home, DefaultDatabaseFile)
}

// ConfigPath returns the config file inside the state directory home.
func ConfigPath(home string) string {
	return filepath.Join(home, DefaultConfigFile)
}

// LogPath returns the log file inside the state directory home.
func LogPath(home string) string {
	return filepath.Join(home, DefaultLogFile)
}

// UserDir returns the state directory under a user's home directory.
func UserDir(userHome string) string {
	return filepath.Join(userHome, Dir)
}

// HomeDir returns ~/.ticklist, or .ticklist when the home directory is unknown.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return Dir
	}
	return UserDir(home)
}
