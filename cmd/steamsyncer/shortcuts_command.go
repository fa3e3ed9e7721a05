package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"steamsyncer/internal/shortcuts"
)

type shortcutRow struct {
	Index    string   `json:"index"`
	Name     string   `json:"name"`
	Exe      string   `json:"exe"`
	AppID    uint32   `json:"appid"`
	Computed uint32   `json:"computed_appid"`
	Stale    bool     `json:"stale"`
	Icon     string   `json:"icon,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

func newShortcutsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "shortcuts",
		Short: "List the non-Steam shortcuts of the active Steam profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := ctx.resolveProfile(cmd.Context())
			if err != nil {
				return err
			}
			store, err := shortcuts.Load(profile.ShortcutsPath())
			if err != nil {
				return err
			}

			rows := make([]shortcutRow, 0, store.Len())
			for _, entry := range store.Entries() {
				stored, ok := entry.StoredAppID()
				if !ok {
					stored = entry.ComputedAppID()
				}
				rows = append(rows, shortcutRow{
					Index:    entry.Index(),
					Name:     entry.AppName(),
					Exe:      entry.Exe(),
					AppID:    stored,
					Computed: entry.ComputedAppID(),
					Stale:    entry.Stale(),
					Icon:     entry.Icon(),
					Tags:     entry.Tags(),
				})
			}
			if jsonOutput {
				return writeJSON(cmd, rows)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Profile: %s\n", profile)
			if len(rows) == 0 {
				fmt.Fprintln(out, "No shortcuts")
				return nil
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				table = append(table, []string{
					r.Index,
					r.Name,
					strconv.FormatUint(uint64(r.AppID), 10),
					yesNo(r.Stale),
					strings.Join(r.Tags, ", "),
					r.Exe,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Name", "AppID", "Stale", "Tags", "Executable"}, table,
				[]columnAlignment{alignRight, alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
