package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"steamsyncer/internal/state"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sync runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *state.Store) error {
				runs, err := store.RecentRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No sync runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					duration := "-"
					if run.Finished() {
						duration = run.Duration().Round(time.Second).String()
					}
					rows = append(rows, []string{
						run.StartedAt.Local().Format(time.DateTime),
						run.Trigger,
						run.State,
						strconv.Itoa(run.Found),
						strconv.Itoa(run.Added),
						strconv.Itoa(run.PendingArtwork),
						duration,
						run.Message,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Started", "Trigger", "State", "Found", "Added", "Pending", "Duration", "Message"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
