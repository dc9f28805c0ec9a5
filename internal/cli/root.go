package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/faizmokh/floortime/internal/app"
	"github.com/faizmokh/floortime/internal/files"
	"github.com/faizmokh/floortime/internal/ui"
)

// environment carries what every command needs. The manager is resolved
// lazily so the --home flag can override it.
type environment struct {
	ctx     context.Context
	home    string
	manager *files.Manager
	now     func() time.Time
}

func (e *environment) Manager() (*files.Manager, error) {
	if e.home != "" {
		return files.NewManager(e.home)
	}
	if e.manager != nil {
		return e.manager, nil
	}
	return files.NewManager("")
}

// open loads the app for one command, logging to the command's stderr.
func (e *environment) open(cmd *cobra.Command, manager *files.Manager) (*app.App, error) {
	return app.Open(e.ctx, manager, cmd.ErrOrStderr(), e.now())
}

// NewRootCommand creates the top-level Cobra command to host subcommands and the board.
// A nil manager resolves the data directory from --home, $FLOORTIME_HOME or ~/.floortime.
func NewRootCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	env := &environment{ctx: ctx, manager: manager, now: time.Now}
	return newRootCommand(env)
}

func newRootCommand(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "floortime",
		Short: "Time shop-floor activities by category from your terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(env)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&env.home, "home", "", "Data directory (default: $FLOORTIME_HOME or ~/.floortime)")

	cmd.AddCommand(
		newStatusCommand(env),
		newPressCommand(env),
		newResetCommand(env),
		newEntriesCommand(env),
		newExportCommand(env),
		newClearCommand(env),
		newCategoriesCommand(env),
		newConfigCommand(env),
		newVersionCommand(),
	)

	return cmd
}

func runBoard(env *environment) error {
	manager, err := env.Manager()
	if err != nil {
		return err
	}
	if err := manager.EnsureBase(); err != nil {
		return err
	}
	guard, err := manager.AcquireBoard()
	if err != nil {
		return fmt.Errorf("%w: %s", err, manager.BasePath())
	}
	defer guard.Release()

	logFile, err := app.OpenLogFile(manager)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	a, err := app.Open(env.ctx, manager, logFile, env.now())
	if err != nil {
		return err
	}

	m := ui.NewModel(env.ctx, a)
	_, runErr := tea.NewProgram(m, tea.WithAltScreen()).Run()
	closeErr := a.Close(env.ctx, env.now())
	if runErr != nil {
		return fmt.Errorf("run TUI: %w", runErr)
	}
	return closeErr
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	cmd := NewRootCommand(ctx, nil)
	return cmd.Execute()
}

// Main is a helper used by cmd/floortime/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
