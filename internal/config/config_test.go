package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/faizmokh/floortime/internal/category"
	"github.com/faizmokh/floortime/internal/timer"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Defaults()
	if got.MinimumDuration != 5*time.Second {
		t.Fatalf("MinimumDuration = %v, want 5s", got.MinimumDuration)
	}
	if got.DurationPolicy != timer.PolicyPerRun || got.DeletePassphrase != "1234" {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	if got.TickInterval != 100*time.Millisecond || got.SaveInterval != 2*time.Second {
		t.Fatalf("unexpected intervals: tick %v save %v", got.TickInterval, got.SaveInterval)
	}
	if got.ExportFile != "time_entries.csv" || got.Storage != "json" {
		t.Fatalf("unexpected file settings: %+v", got)
	}
	if len(got.Uptime) != len(want.Uptime) || len(got.Downtime) != len(want.Downtime) {
		t.Fatalf("categories differ from defaults")
	}
}

func TestLoadAppliesFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := strings.TrimLeft(`
minimum_duration_seconds: 2.5
duration_policy: Cumulative
delete_passphrase: "9999"
tick_interval_ms: 250
save_interval_ms: 5000
storage: SQLITE
export_file: line3.csv
log_level: DEBUG
categories:
  uptime:
    - name: Running
      icon: "▶"
      color: "#00ff00"
  downtime:
    - name: Jammed
`, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.MinimumDuration != 2500*time.Millisecond {
		t.Errorf("MinimumDuration = %v, want 2.5s", got.MinimumDuration)
	}
	if got.DurationPolicy != timer.PolicyCumulative {
		t.Errorf("DurationPolicy = %v", got.DurationPolicy)
	}
	if got.DeletePassphrase != "9999" {
		t.Errorf("DeletePassphrase = %q", got.DeletePassphrase)
	}
	if got.TickInterval != 250*time.Millisecond || got.SaveInterval != 5*time.Second {
		t.Errorf("intervals = %v / %v", got.TickInterval, got.SaveInterval)
	}
	if got.Storage != "sqlite" || got.ExportFile != "line3.csv" || got.LogLevel != "debug" {
		t.Errorf("unexpected settings: %+v", got)
	}

	catalog, err := got.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if catalog.Len() != 2 {
		t.Fatalf("catalog len = %d, want 2", catalog.Len())
	}
	if g, ok := catalog.Group("Jammed"); !ok || g != category.GroupDowntime {
		t.Fatalf("Jammed group = %v, %v", g, ok)
	}
}

func TestLoadIgnoresOutOfRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "tick_interval_ms: 1\nsave_interval_ms: 5\nduration_policy: weekly\nminimum_duration_seconds: -3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Defaults()
	if got.TickInterval != def.TickInterval || got.SaveInterval != def.SaveInterval {
		t.Errorf("intervals changed: %v / %v", got.TickInterval, got.SaveInterval)
	}
	if got.DurationPolicy != def.DurationPolicy || got.MinimumDuration != def.MinimumDuration {
		t.Errorf("policy/minimum changed: %v / %v", got.DurationPolicy, got.MinimumDuration)
	}
}

func TestLoadRejectsDuplicateCategories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "categories:\n  uptime:\n    - name: A\n  downtime:\n    - name: A\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Load(path)
	if err == nil {
		t.Fatalf("Load succeeded with duplicate categories")
	}
	if len(got.Uptime)+len(got.Downtime) != category.Default().Len() {
		t.Fatalf("fallback settings do not carry default categories")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage: [unterminated"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load succeeded on malformed yaml")
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	settings := Defaults()
	settings.MinimumDuration = 8 * time.Second
	settings.DurationPolicy = timer.PolicyCumulative
	settings.Storage = "sqlite"

	if err := Save(path, settings); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.MinimumDuration != 8*time.Second || got.DurationPolicy != timer.PolicyCumulative || got.Storage != "sqlite" {
		t.Fatalf("round trip lost values: %+v", got)
	}
	if len(got.Uptime) != 3 || got.Uptime[1].Name != "Direct Work" || got.Downtime[0].Color != "#e67e22" {
		t.Fatalf("round trip lost categories: %+v / %+v", got.Uptime, got.Downtime)
	}
}

func TestLoadAcceptsPolicyAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	tests := []struct {
		value string
		want  timer.Policy
	}{
		{"total", timer.PolicyCumulative},
		{"Cumulative", timer.PolicyCumulative},
		{"per-run", timer.PolicyPerRun},
		{"run", timer.PolicyPerRun},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if err := os.WriteFile(path, []byte("duration_policy: "+tt.value+"\n"), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.DurationPolicy != tt.want {
				t.Fatalf("DurationPolicy = %v, want %v", got.DurationPolicy, tt.want)
			}
		})
	}
}

func TestMarshalWritesCanonicalPolicy(t *testing.T) {
	settings := Defaults()
	settings.DurationPolicy = timer.PolicyCumulative

	data, err := Marshal(settings)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), "duration_policy: cumulative") {
		t.Fatalf("yaml = %s", data)
	}
}
