package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faizmokh/floortime/internal/app"
	"github.com/faizmokh/floortime/internal/entrylog"
	"github.com/faizmokh/floortime/internal/prompt"
)

func newEntriesCommand(env *environment) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List saved time entries, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limitFlag < 0 {
				return fmt.Errorf("limit must be >= 0")
			}
			return withApp(env, cmd, func(a *app.App) error {
				printEntries(cmd, a.Entries.Recent(limitFlag))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 10, "Number of entries to show (0 for all)")

	return cmd
}

func newExportCommand(env *environment) *cobra.Command {
	var outFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every time entry as CSV.",
		Long:  "export writes the entry log as CSV to the configured export file, to --out, or to stdout when --out is -.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(env, cmd, func(a *app.App) error {
				path := strings.TrimSpace(outFlag)
				if path == "" {
					path = a.Settings.ExportFile
				}
				if path == "-" {
					_, err := a.Entries.WriteCSV(cmd.OutOrStdout())
					return err
				}

				rows, err := a.Entries.Export(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entr%s to %s\n", rows, plural(rows), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output file, or - for stdout (default: export_file from config)")

	return cmd
}

func newClearCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved time entry (asks for confirmation and the password).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withIdleApp(env, cmd, func(a *app.App) error {
				count := a.Entries.Len()
				term := prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
				err := a.Entries.Clear(env.ctx, term, a.Settings.DeletePassphrase)
				switch {
				case errors.Is(err, entrylog.ErrCancelled):
					fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled")
					return nil
				case errors.Is(err, entrylog.ErrPassphraseMismatch):
					return fmt.Errorf("entries not deleted: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d entr%s\n", count, plural(count))
				return err
			})
		},
	}
}

func plural(count int) string {
	if count == 1 {
		return "y"
	}
	return "ies"
}
