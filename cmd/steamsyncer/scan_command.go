package main

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"steamsyncer/internal/games"
	"steamsyncer/internal/scanner"
	"steamsyncer/internal/state"
	"steamsyncer/internal/syncer"
	"steamsyncer/internal/syncrun"
)

type scanRow struct {
	Name   string `json:"name"`
	Exe    string `json:"exe"`
	Source string `json:"source"`
	AppID  uint32 `json:"appid"`
	Key    string `json:"key"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var knownStores bool

	cmd := &cobra.Command{
		Use:   "scan [folder...]",
		Short: "List games detected in scan folders without touching Steam",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			folders := syncer.FoldersFromPaths(cfg.Scan.Folders)
			if len(args) > 0 {
				folders = syncer.FoldersFromPaths(args)
			}
			includeStores := cfg.Scan.IncludeKnownStores
			if cmd.Flags().Changed("known-stores") {
				includeStores = knownStores
			}
			if includeStores {
				folders = append(folders, scanner.KnownStoreFolders(runtime.GOOS)...)
			}

			candidates := syncrun.NewScanner(cfg, ctx.logger()).Scan(cmd.Context(), folders)
			if err := ctx.withStore(func(store *state.Store) error {
				overrides, err := store.Overrides(cmd.Context())
				if err != nil {
					return err
				}
				candidates = games.ApplyOverrides(candidates, overrides)
				return nil
			}); err != nil {
				return err
			}

			rows := make([]scanRow, 0, len(candidates))
			for _, c := range candidates {
				rows = append(rows, scanRow{Name: c.Name, Exe: c.ExePath, Source: string(c.Source), AppID: c.AppID(), Key: c.Key()})
			}
			if jsonOutput {
				return writeJSON(cmd, rows)
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No games found")
				return nil
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				table = append(table, []string{r.Name, strconv.FormatUint(uint64(r.AppID), 10), r.Source, r.Exe})
			}
			fmt.Fprintln(out, renderTable([]string{"Name", "AppID", "Source", "Executable"}, table,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&knownStores, "known-stores", false, "Include known store install roots (overrides scan.include_known_stores)")
	return cmd
}
