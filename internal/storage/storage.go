// Package storage provides the local key-value store that holds ticklist state.
//
// Values are opaque strings, like a browser's local storage. Three backends
// are available:
//
//   - "file": a single JSON object file, rewritten atomically on every change
//   - "sqlite": a kv table in a SQLite database
//   - "memory": a process-local map, used by tests
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is a synchronous string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Close releases resources held by the store.
	Close() error
}

// Backends returns the names accepted by Open.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// ValidBackend reports whether name is a known backend.
func ValidBackend(name string) bool {
	for _, b := range Backends() {
		if b == name {
			return true
		}
	}
	return false
}

// Open opens the store for backend at path.
func Open(backend, path string, logger *log.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile, "":
		return OpenFile(path, logger)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w %q (want one of: %s)", ErrUnknownBackend, backend, strings.Join(Backends(), ", "))
	}
}
