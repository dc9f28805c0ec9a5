// Package store provides the durable key-value medium that timer state and
// the entry log are persisted to. Values are opaque strings, mirroring a
// browser's local storage.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/faizmokh/floortime/internal/files"
)

var (
	// ErrUnknownBackend is returned by Open for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
	// ErrCorrupt is returned when the backing medium cannot be decoded.
	ErrCorrupt = errors.New("storage is corrupt")
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open constructs the named backend rooted in the manager's data directory.
func Open(backend string, manager *files.Manager) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		if err := manager.EnsureBase(); err != nil {
			return nil, err
		}
		return NewJSONFile(manager.StatePath()), nil
	case BackendSQLite:
		return NewSQLite(manager.DatabasePath())
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w %q (expected json|sqlite|memory)", ErrUnknownBackend, backend)
	}
}
