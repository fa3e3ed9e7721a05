package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"steamsyncer/internal/syncer"
	"steamsyncer/internal/syncrun"
)

type syncSummary struct {
	RunID          string   `json:"run_id"`
	State          string   `json:"state"`
	Message        string   `json:"message"`
	Found          int      `json:"found"`
	Added          int      `json:"added"`
	PendingArtwork int      `json:"pending_artwork"`
	Removed        int      `json:"duplicates_removed"`
	Repaired       int      `json:"repaired"`
	Profile        string   `json:"profile,omitempty"`
	AddedAppIDs    []uint32 `json:"added_appids,omitempty"`
}

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Scan game folders and add new games to Steam",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := syncrun.Options{LogLevel: ctx.logLevel(), Trigger: "manual"}
			var printer *statusPrinter
			if !jsonOutput {
				printer = newStatusPrinter(cmd.OutOrStdout())
				opts.OnStatus = printer.update
			}

			result, runErr := syncrun.RunOnce(cmd.Context(), cfg, opts)
			if printer != nil {
				printer.finish()
			}
			if result.RunID == "" {
				return runErr
			}

			summary := syncSummary{
				RunID:          result.RunID,
				State:          string(result.Status.State),
				Message:        result.Status.Message,
				Found:          result.Status.Found,
				Added:          result.Status.Added,
				PendingArtwork: result.Status.PendingArtwork,
				Removed:        result.Removed,
				Repaired:       result.Repair.Repaired,
				AddedAppIDs:    result.AddedAppIDs,
			}
			if result.Profile.UserID != "" {
				summary.Profile = result.Profile.String()
			}
			if jsonOutput {
				if err := writeJSON(cmd, summary); err != nil {
					return err
				}
				return runErr
			}
			if runErr == nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderSyncSummary(summary, result.Status))
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run summary as JSON")
	return cmd
}

func renderSyncSummary(summary syncSummary, status syncer.Status) string {
	rows := [][]string{
		{"Found", strconv.Itoa(summary.Found)},
		{"Added", strconv.Itoa(summary.Added)},
		{"Artwork pending", strconv.Itoa(summary.PendingArtwork)},
		{"Duplicates removed", strconv.Itoa(summary.Removed)},
		{"Identifiers repaired", strconv.Itoa(summary.Repaired)},
	}
	if !status.LastSyncAt.IsZero() {
		rows = append(rows, []string{"Finished", status.LastSyncAt.Local().Format(time.DateTime)})
	}
	if summary.Profile != "" {
		rows = append(rows, []string{"Profile", summary.Profile})
	}
	return renderTable([]string{"Sync", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
