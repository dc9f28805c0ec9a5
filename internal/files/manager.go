package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPermissions = 0o755

	stateFileName    = "state.json"
	databaseFileName = "floortime.db"
	configFileName   = "config.yaml"
	logFileName      = "floortime.log"
)

// Manager centralizes where floortime keeps its files and how they are named.
type Manager struct {
	basePath string
}

// NewManager constructs a Manager rooted at the provided directory. If basePath
// is empty, it falls back to ~/.floortime (or another location determined by
// ResolveBasePath).
func NewManager(basePath string) (*Manager, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveBasePath()
		if err != nil {
			return nil, err
		}
	}
	basePath, err = normalizePath(basePath)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Manager{basePath: abs}, nil
}

// BasePath returns the root directory storing all floortime files.
func (m *Manager) BasePath() string {
	return m.basePath
}

// StatePath is the JSON key-value file backing the default store.
func (m *Manager) StatePath() string {
	return filepath.Join(m.basePath, stateFileName)
}

// DatabasePath is the SQLite file used when the sqlite store is selected.
func (m *Manager) DatabasePath() string {
	return filepath.Join(m.basePath, databaseFileName)
}

// ConfigPath is the YAML settings file.
func (m *Manager) ConfigPath() string {
	return filepath.Join(m.basePath, configFileName)
}

// LogPath is where the board writes its log while it owns the terminal.
func (m *Manager) LogPath() string {
	return filepath.Join(m.basePath, logFileName)
}

// EnsureBase guarantees the data directory exists.
func (m *Manager) EnsureBase() error {
	if m == nil {
		return errors.New("files.Manager is nil")
	}
	if err := os.MkdirAll(m.basePath, dirPermissions); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}
