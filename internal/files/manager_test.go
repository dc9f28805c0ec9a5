package files

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManagerPaths(t *testing.T) {
	tmp := t.TempDir()

	mgr, err := NewManager(tmp)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"state", mgr.StatePath(), filepath.Join(tmp, "state.json")},
		{"database", mgr.DatabasePath(), filepath.Join(tmp, "floortime.db")},
		{"config", mgr.ConfigPath(), filepath.Join(tmp, "config.yaml")},
		{"log", mgr.LogPath(), filepath.Join(tmp, "floortime.log")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s path = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestNewManagerFallsBackToResolvedBase(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "env-root")
	t.Setenv(HomeEnv, custom)

	mgr, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if mgr.BasePath() != custom {
		t.Fatalf("BasePath() = %q, want %q", mgr.BasePath(), custom)
	}
}

func TestEnsureBaseCreatesDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "data")

	mgr, err := NewManager(base)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := mgr.EnsureBase(); err != nil {
		t.Fatalf("EnsureBase: %v", err)
	}
	info, err := os.Stat(base)
	if err != nil {
		t.Fatalf("expected directory %q to exist: %v", base, err)
	}
	if !info.IsDir() {
		t.Fatalf("%q is not a directory", base)
	}

	// Second call is a no-op.
	if err := mgr.EnsureBase(); err != nil {
		t.Fatalf("EnsureBase second call: %v", err)
	}
}
