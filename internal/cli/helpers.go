package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faizmokh/floortime/internal/app"
	"github.com/faizmokh/floortime/internal/entrylog"
	"github.com/faizmokh/floortime/internal/timer"
)

func formatEntry(entry entrylog.Entry) string {
	builder := strings.Builder{}
	builder.Grow(48 + len(entry.Category) + len(entry.Label))

	builder.WriteString(entry.Date.Format("2006-01-02 15:04:05"))
	builder.WriteString(" [")
	builder.WriteString(entry.Category)
	builder.WriteString("] ")
	builder.WriteString(entrylog.FormatDuration(entry.Duration))

	if entry.Label != "" {
		builder.WriteString(" ")
		builder.WriteString(entry.Label)
	}

	return builder.String()
}

func printOutcome(cmd *cobra.Command, out timer.Outcome) {
	w := cmd.OutOrStdout()
	switch {
	case out.Entry != nil:
		fmt.Fprintf(w, "Saved %s\n", formatEntry(*out.Entry))
	case out.Discarded:
		fmt.Fprintf(w, "Discarded short run of %s\n", out.Stopped)
	}
	if out.Started != "" {
		fmt.Fprintf(w, "Started %s\n", out.Started)
	} else {
		fmt.Fprintln(w, "No timer running")
	}
}

func printEntries(cmd *cobra.Command, entries []entrylog.Entry) {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "(no entries)")
		return
	}
	for i, entry := range entries {
		fmt.Fprintf(out, "%d. %s\n", i+1, formatEntry(entry))
	}
}

// withApp opens the app for one command and saves it when fn returns. While a
// board holds the data directory the timers are left for the board to save.
func withApp(env *environment, cmd *cobra.Command, fn func(a *app.App) error) error {
	manager, err := env.Manager()
	if err != nil {
		return err
	}
	boardErr := manager.CheckBoardIdle()

	a, err := env.open(cmd, manager)
	if err != nil {
		return err
	}
	runErr := fn(a)
	var closeErr error
	if boardErr != nil {
		closeErr = a.Discard()
	} else {
		closeErr = a.Close(env.ctx, env.now())
	}
	if runErr != nil {
		return runErr
	}
	return closeErr
}

// withIdleApp is withApp for commands that change timers or entries. They are
// refused while a board is running, since the board would overwrite them.
func withIdleApp(env *environment, cmd *cobra.Command, fn func(a *app.App) error) error {
	manager, err := env.Manager()
	if err != nil {
		return err
	}
	if err := manager.CheckBoardIdle(); err != nil {
		return fmt.Errorf("%w: use the board or quit it first", err)
	}
	return withApp(env, cmd, fn)
}
