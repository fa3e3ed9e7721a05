package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"steamsyncer/internal/games"
	"steamsyncer/internal/state"
)

func newOverrideCommand(ctx *commandContext) *cobra.Command {
	overrideCmd := &cobra.Command{
		Use:   "override",
		Short: "Manage launch overrides for detected games",
		Long: "Overrides replace the display name, executable, start directory, or launch\n" +
			"options of a detected game. They are keyed by the detected name and executable\n" +
			"(see `steamsyncer scan --json`) and applied on the next sync.",
	}
	overrideCmd.AddCommand(newOverrideListCommand(ctx))
	overrideCmd.AddCommand(newOverrideSetCommand(ctx))
	overrideCmd.AddCommand(newOverrideRemoveCommand(ctx))
	return overrideCmd
}

func newOverrideListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List launch overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *state.Store) error {
				overrides, err := store.ListOverrides(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, overrides)
				}
				out := cmd.OutOrStdout()
				if len(overrides) == 0 {
					fmt.Fprintln(out, "No overrides")
					return nil
				}
				rows := make([][]string, 0, len(overrides))
				for _, o := range overrides {
					rows = append(rows, []string{o.Key, o.DisplayName, o.ExePath, o.StartDir, o.LaunchOptions})
				}
				fmt.Fprintln(out, renderTable([]string{"Key", "Name", "Executable", "Start dir", "Options"}, rows, nil))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newOverrideSetCommand(ctx *commandContext) *cobra.Command {
	var override games.LaunchOverride
	cmd := &cobra.Command{
		Use:   "set <detected-name> <detected-exe>",
		Short: "Create or replace a launch override",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			override.Key = games.Key(args[0], args[1])
			if strings.TrimSpace(override.DisplayName) == "" &&
				strings.TrimSpace(override.ExePath) == "" &&
				strings.TrimSpace(override.StartDir) == "" &&
				override.LaunchOptions == "" {
				return errors.New("set at least one of --name, --exe, --start-dir, --options")
			}
			return ctx.withStore(func(store *state.Store) error {
				if err := store.UpsertOverride(cmd.Context(), override); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Override saved for %s\n", override.Key)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&override.DisplayName, "name", "", "Display name in Steam")
	cmd.Flags().StringVar(&override.ExePath, "exe", "", "Executable to launch")
	cmd.Flags().StringVar(&override.StartDir, "start-dir", "", "Working directory")
	cmd.Flags().StringVar(&override.LaunchOptions, "options", "", "Launch options")
	return cmd
}

func newOverrideRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <detected-name> <detected-exe>",
		Aliases: []string{"rm"},
		Short:   "Remove a launch override",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := games.Key(args[0], args[1])
			return ctx.withStore(func(store *state.Store) error {
				removed, err := store.RemoveOverride(cmd.Context(), key)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("no override for %s", key)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Override removed for %s\n", key)
				return nil
			})
		},
	}
}
