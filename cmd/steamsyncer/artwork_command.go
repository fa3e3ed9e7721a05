package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"steamsyncer/internal/artwork"
	"steamsyncer/internal/shortcuts"
	"steamsyncer/internal/syncrun"
)

type artworkRow struct {
	Name       string   `json:"name"`
	AppID      uint32   `json:"appid"`
	Missing    []string `json:"missing"`
	Downloaded int      `json:"downloaded,omitempty"`
}

func newArtworkCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var fetch bool

	cmd := &cobra.Command{
		Use:   "artwork [name-filter]",
		Short: "Report missing artwork for shortcuts and optionally fetch it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if fetch && cfg.Artwork.APIKey == "" {
				return errors.New("artwork fetch requires artwork.api_key or STEAMGRIDDB_API_KEY")
			}
			profile, err := ctx.resolveProfile(cmd.Context())
			if err != nil {
				return err
			}
			store, err := shortcuts.Load(profile.ShortcutsPath())
			if err != nil {
				return err
			}
			filter := ""
			if len(args) == 1 {
				filter = strings.ToLower(strings.TrimSpace(args[0]))
			}

			logger := ctx.logger()
			pipeline := syncrun.NewPipeline(cfg, logger)
			gridDir := profile.GridDir()
			var rows []artworkRow
			for _, entry := range store.Entries() {
				if filter != "" && !strings.Contains(strings.ToLower(entry.AppName()), filter) {
					continue
				}
				id, ok := entry.StoredAppID()
				if !ok {
					id = entry.ComputedAppID()
				}
				row := artworkRow{Name: entry.AppName(), AppID: id}
				if fetch {
					result, err := pipeline.FetchSet(cmd.Context(), cfg.Artwork.APIKey, entry.AppName(), gridDir, id)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", entry.AppName(), err)
					}
					row.Downloaded = result.Downloaded
				}
				missing, err := artwork.MissingKinds(gridDir, id)
				if err != nil {
					return fmt.Errorf("inspect artwork for %s: %w", entry.AppName(), err)
				}
				for _, kind := range missing {
					row.Missing = append(row.Missing, string(kind))
				}
				rows = append(rows, row)
			}

			if jsonOutput {
				return writeJSON(cmd, rows)
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No shortcuts")
				return nil
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				missing := strings.Join(r.Missing, ", ")
				if missing == "" {
					missing = "complete"
				}
				line := []string{r.Name, strconv.FormatUint(uint64(r.AppID), 10), missing}
				if fetch {
					line = append(line, strconv.Itoa(r.Downloaded))
				}
				table = append(table, line)
			}
			headers := []string{"Name", "AppID", "Missing"}
			if fetch {
				headers = append(headers, "Downloaded")
			}
			fmt.Fprintln(out, renderTable(headers, table, []columnAlignment{alignLeft, alignRight, alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&fetch, "fetch", false, "Download missing artwork from SteamGridDB")
	return cmd
}
