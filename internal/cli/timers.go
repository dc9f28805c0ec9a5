package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/floortime/internal/app"
	"github.com/faizmokh/floortime/internal/category"
	"github.com/faizmokh/floortime/internal/entrylog"
	"github.com/faizmokh/floortime/internal/prompt"
	"github.com/faizmokh/floortime/internal/timer"
)

func newStatusCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running timer and every category's total.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(env, cmd, func(a *app.App) error {
				out := cmd.OutOrStdout()
				if active := a.Timers.Active(); active != "" {
					fmt.Fprintf(out, "Running: %s (this run %s)\n", active, entrylog.FormatDuration(a.Timers.LatestRun(active)))
				} else {
					fmt.Fprintln(out, "No timer running")
				}

				for i, c := range a.Catalog.All() {
					group, _ := a.Catalog.Group(c.Name)
					marker := " "
					if c.Name == a.Timers.Active() {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %d. %-12s %-8s %s\n", marker, i+1, c.Name, group, entrylog.FormatDuration(a.Timers.Elapsed(c.Name)))
				}
				return nil
			})
		},
	}
}

func newPressCommand(env *environment) *cobra.Command {
	var labelFlag string

	cmd := &cobra.Command{
		Use:   "press <category|position>",
		Short: "Start, stop or switch a category timer.",
		Long: "press behaves like tapping a category on the board. A running category is stopped first; " +
			"runs shorter than the minimum duration are discarded, longer ones are saved with a label " +
			"read from --label or stdin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withIdleApp(env, cmd, func(a *app.App) error {
				c, ok := a.Catalog.Resolve(args[0])
				if !ok {
					return fmt.Errorf("%w: %q", timer.ErrUnknownCategory, args[0])
				}

				var p prompt.Prompter = prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
				if cmd.Flags().Changed("label") {
					p = &prompt.Script{Answers: []prompt.Answer{prompt.Says(labelFlag)}}
				}

				out, err := a.Timers.HandlePress(env.ctx, c.Name, env.now(), p)
				printOutcome(cmd, out)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&labelFlag, "label", "", "Label for the entry saved by this press (skips the prompt)")

	return cmd
}

func newResetCommand(env *environment) *cobra.Command {
	var (
		yesFlag   bool
		saveFlag  bool
		labelFlag string
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset every timer to zero. Saved entries are kept.",
		Long: "reset clears every timer after a confirmation. With --save each category with time on " +
			"its timer is first recorded as an entry, labelled from --label or stdin.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withIdleApp(env, cmd, func(a *app.App) error {
				term := prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
				if saveFlag {
					var p prompt.Prompter = term
					if cmd.Flags().Changed("label") {
						p = &prompt.Script{Answers: []prompt.Answer{prompt.Says(labelFlag)}}
					}
					saved, done, err := a.Timers.SaveAndResetAll(env.ctx, p, env.now())
					if !done {
						fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled")
						return nil
					}
					for _, entry := range saved {
						fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", formatEntry(entry))
					}
					fmt.Fprintln(cmd.OutOrStdout(), "All timers reset")
					return err
				}

				var confirm prompt.Confirmer = term
				if yesFlag {
					confirm = &prompt.Script{Confirms: []bool{true}}
				}

				done, err := a.Timers.ResetAll(env.ctx, confirm, env.now())
				if !done {
					fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All timers reset")
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation")
	cmd.Flags().BoolVar(&saveFlag, "save", false, "Save every timer as an entry before resetting")
	cmd.Flags().StringVar(&labelFlag, "label", "", "Label for the entries saved by --save (skips the prompt)")

	return cmd
}

func newCategoriesCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories on the board with their positions.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(env, cmd, func(a *app.App) error {
				out := cmd.OutOrStdout()
				position := 1
				for _, group := range []category.Group{category.GroupUptime, category.GroupDowntime} {
					cats := a.Catalog.Uptime()
					if group == category.GroupDowntime {
						cats = a.Catalog.Downtime()
					}
					fmt.Fprintf(out, "%s:\n", group)
					for _, c := range cats {
						fmt.Fprintf(out, "  %d. %s %s (%s)\n", position, c.Icon, c.Name, c.Color)
						position++
					}
				}
				return nil
			})
		},
	}
}
