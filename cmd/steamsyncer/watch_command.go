package main

import (
	"github.com/spf13/cobra"

	"steamsyncer/internal/syncrun"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run in the foreground and sync whenever Steam starts",
		Long: "Poll the Steam process every watch.poll_interval seconds. When Steam starts,\n" +
			"no sync is active, and watch.cooldown seconds have passed since the last\n" +
			"handled launch, close Steam, sync, and relaunch it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return syncrun.Watch(cmd.Context(), cfg, syncrun.Options{LogLevel: ctx.logLevel()})
		},
	}
}
