package version

import (
	"strings"
	"testing"
)

func TestInfoUsesLinkerValues(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldVersion, oldCommit, oldDate })

	Version, Commit, Date = "v1.2.0", "abc1234", "2025-03-04"
	if got, want := Info(), "v1.2.0 (commit abc1234, built 2025-03-04)"; got != want {
		t.Fatalf("Info() = %q, want %q", got, want)
	}
}

func TestInfoDefaults(t *testing.T) {
	if got := Info(); !strings.Contains(got, "built unknown") {
		t.Fatalf("Info() = %q", got)
	}
}
