package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/faizmokh/floortime/internal/files"
	"github.com/faizmokh/floortime/internal/store"
)

var t0 = time.Date(2025, time.March, 4, 8, 0, 0, 0, time.Local)

func TestCLIWorkflowEndToEnd(t *testing.T) {
	env, clock := newTestEnv(t)

	// 1. Start Direct Work by position.
	out := executeCommand(t, env, "", "press", "2")
	assertContains(t, out, "Started Direct Work")

	// 2. Seven seconds later switch to Maintenance, labelling the entry from stdin.
	clock.Advance(7 * time.Second)
	out = executeCommand(t, env, "shift change\n", "press", "Maintenance")
	assertContains(t, out, "Please enter a label for this entry:")
	assertContains(t, out, "Saved 2025-03-04 08:00:07 [Direct Work] 00:00:07.0 shift change")
	assertContains(t, out, "Started Maintenance")

	// 3. Status credits the time since the last command to the running category.
	clock.Advance(3 * time.Second)
	out = executeCommand(t, env, "", "status")
	assertContains(t, out, "Running: Maintenance (this run 00:00:03.0)")
	assertContains(t, out, "2. Direct Work")

	// 4. Switching after six seconds saves Maintenance; EOF on stdin leaves the label empty.
	clock.Advance(3 * time.Second)
	out = executeCommand(t, env, "", "press", "setup time")
	assertContains(t, out, "Saved 2025-03-04 08:00:13 [Maintenance] 00:00:06.0\n")
	assertContains(t, out, "Started Setup Time")

	// 5. A two second run of Setup Time is discarded.
	clock.Advance(2 * time.Second)
	out = executeCommand(t, env, "", "press", "1")
	assertContains(t, out, "Discarded short run of Setup Time")
	assertContains(t, out, "No timer running")

	// 6. Entries lists the saved entries, newest first.
	out = executeCommand(t, env, "", "entries")
	assertContains(t, out, "1. 2025-03-04 08:00:13 [Maintenance] 00:00:06.0")
	assertContains(t, out, "2. 2025-03-04 08:00:07 [Direct Work] 00:00:07.0 shift change")

	// 7. Export to stdout.
	out = executeCommand(t, env, "", "export", "--out", "-")
	assertContains(t, out, "Date,Time,Category,Timer (s),Label\n2025-03-04,08:00:07,Direct Work,00:00:07.0,shift change\n")

	// 8. A wrong password keeps the entries.
	_, err := runCommand(env, "y\n0000\n", "clear")
	if err == nil || !strings.Contains(err.Error(), "incorrect passphrase") {
		t.Fatalf("clear with wrong password: err = %v", err)
	}
	out = executeCommand(t, env, "", "entries")
	assertContains(t, out, "Direct Work")

	// 9. The right one removes them.
	out = executeCommand(t, env, "y\n1234\n", "clear")
	assertContains(t, out, "Deleted 2 entries")
	out = executeCommand(t, env, "", "entries")
	assertContains(t, out, "(no entries)")
}

func TestPressLabelFlagSkipsPrompt(t *testing.T) {
	env, clock := newTestEnv(t)

	executeCommand(t, env, "", "press", "Waiting")
	clock.Advance(12 * time.Second)
	out := executeCommand(t, env, "", "press", "Waiting", "--label", "no material")

	assertNotContains(t, out, "Please enter a label")
	assertContains(t, out, "[Waiting] 00:00:12.0 no material")
	assertContains(t, out, "No timer running")
}

func TestPressUnknownCategory(t *testing.T) {
	env, _ := newTestEnv(t)

	_, err := runCommand(env, "", "press", "Lunch")
	if err == nil || !strings.Contains(err.Error(), `unknown category: "Lunch"`) {
		t.Fatalf("err = %v", err)
	}
}

func TestResetCommand(t *testing.T) {
	env, clock := newTestEnv(t)

	executeCommand(t, env, "", "press", "3")
	clock.Advance(4 * time.Second)

	out := executeCommand(t, env, "n\n", "reset")
	assertContains(t, out, "Reset cancelled")
	out = executeCommand(t, env, "", "status")
	assertContains(t, out, "Running: QC Inspect")

	out = executeCommand(t, env, "", "reset", "--yes")
	assertContains(t, out, "All timers reset")
	out = executeCommand(t, env, "", "status")
	assertContains(t, out, "No timer running")
	assertContains(t, out, "QC Inspect   Uptime   00:00:00.0")
}

func TestResetSaveRecordsEveryTimer(t *testing.T) {
	env, clock := newTestEnv(t)

	executeCommand(t, env, "", "press", "Waiting")
	clock.Advance(8 * time.Second)
	executeCommand(t, env, "", "press", "1", "--label", "no material")
	clock.Advance(3 * time.Second)

	out := executeCommand(t, env, "", "reset", "--save")
	assertContains(t, out, "Reset cancelled")

	out = executeCommand(t, env, "end of shift\n", "reset", "--save")
	assertContains(t, out, "Please enter a label for this entry:")
	assertContains(t, out, "Saved 2025-03-04 08:00:11 [Setup Time] 00:00:03.0 end of shift")
	assertContains(t, out, "Saved 2025-03-04 08:00:11 [Waiting] 00:00:08.0 end of shift")
	assertContains(t, out, "All timers reset")

	out = executeCommand(t, env, "", "status")
	assertContains(t, out, "No timer running")
	out = executeCommand(t, env, "", "entries", "-n", "0")
	assertContains(t, out, "3. 2025-03-04 08:00:08 [Waiting] 00:00:08.0 no material")

	clock.Advance(time.Minute)
	out = executeCommand(t, env, "", "reset", "--save", "--label", "idle")
	assertNotContains(t, out, "Saved")
	assertContains(t, out, "All timers reset")
}

func TestMutatingCommandsRefusedWhileBoardRuns(t *testing.T) {
	env, clock := newTestEnv(t)
	executeCommand(t, env, "", "press", "2")

	guard, err := env.manager.AcquireBoard()
	if err != nil {
		t.Fatalf("AcquireBoard: %v", err)
	}
	clock.Advance(10 * time.Second)

	for _, args := range [][]string{
		{"press", "4", "--label", "x"},
		{"reset", "--yes"},
		{"reset", "--save", "--label", "x"},
		{"clear"},
	} {
		if _, err := runCommand(env, "y\n1234\n", args...); !errors.Is(err, files.ErrBoardRunning) {
			t.Fatalf("%q while board runs: err = %v, want ErrBoardRunning", args, err)
		}
	}

	out := executeCommand(t, env, "", "status")
	assertContains(t, out, "Running: Direct Work (this run 00:00:10.0)")
	updated, _, err := mustStore(t, env).Get(context.Background(), "lastUpdateTime")
	if err != nil || updated != strconv.FormatInt(t0.UnixMilli(), 10) {
		t.Fatalf("status saved state while board runs: lastUpdateTime = %q, %v", updated, err)
	}

	if err := guard.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	out = executeCommand(t, env, "", "press", "4", "--label", "x")
	assertContains(t, out, "Saved 2025-03-04 08:00:10 [Direct Work] 00:00:10.0 x")
}

func TestExportCommandWritesConfiguredFile(t *testing.T) {
	env, clock := newTestEnv(t)
	target := filepath.Join(t.TempDir(), "shift.csv")

	executeCommand(t, env, "", "press", "2")
	clock.Advance(9 * time.Second)
	executeCommand(t, env, "", "press", "2", "--label", "batch 7")

	out := executeCommand(t, env, "", "export", "-o", target)
	assertContains(t, out, "Exported 1 entry to "+target)

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	assertContains(t, string(data), "Direct Work,00:00:09.0,batch 7")
}

func TestConfigInitAndShow(t *testing.T) {
	env, _ := newTestEnv(t)

	out := executeCommand(t, env, "", "config", "init")
	assertContains(t, out, "config.yaml")

	if _, err := runCommand(env, "", "config", "init"); err == nil {
		t.Fatalf("second config init succeeded without --force")
	}
	executeCommand(t, env, "", "config", "init", "--force")

	out = executeCommand(t, env, "", "config", "show")
	assertContains(t, out, "minimum_duration_seconds: 5")
	assertContains(t, out, "delete_passphrase: \"1234\"")
	assertContains(t, out, "name: End of Day")
}

func TestCategoriesCommand(t *testing.T) {
	env, _ := newTestEnv(t)

	out := executeCommand(t, env, "", "categories")
	assertContains(t, out, "Uptime:\n  1. ⚙️ Setup Time (#3498db)")
	assertContains(t, out, "Downtime:\n  4. 🛠️ Maintenance (#e67e22)")
	assertContains(t, out, "6. 🏁 End of Day (#9b59b6)")
}

func TestHomeFlagOverridesManager(t *testing.T) {
	env, _ := newTestEnv(t)
	home := t.TempDir()

	executeCommand(t, env, "", "--home", home, "press", "1")
	if _, err := os.Stat(filepath.Join(home, "state.json")); err != nil {
		t.Fatalf("state not written under --home: %v", err)
	}

	out := executeCommand(t, env, "", "status")
	assertContains(t, out, "No timer running")
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestEnv(t *testing.T) (*environment, *testClock) {
	t.Helper()
	clock := &testClock{now: t0}
	return &environment{
		ctx:     context.Background(),
		manager: newTempManager(t),
		now:     clock.Now,
	}, clock
}

func runCommand(env *environment, stdin string, args ...string) (string, error) {
	cmd := newRootCommand(env)
	buf := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func executeCommand(t *testing.T, env *environment, stdin string, args ...string) string {
	t.Helper()
	out, err := runCommand(env, stdin, args...)
	if err != nil {
		t.Fatalf("cmd.Execute(%q): %v\n%s", args, err, out)
	}
	return out
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output %q missing substring %q", output, want)
	}
}

func assertNotContains(t *testing.T, output, want string) {
	t.Helper()
	if strings.Contains(output, want) {
		t.Fatalf("output %q unexpectedly contained substring %q", output, want)
	}
}

func mustStore(t *testing.T, env *environment) *store.JSONFile {
	t.Helper()
	return store.NewJSONFile(env.manager.StatePath())
}

func newTempManager(t *testing.T) *files.Manager {
	t.Helper()
	base := t.TempDir()
	mgr, err := files.NewManager(base)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr
}
