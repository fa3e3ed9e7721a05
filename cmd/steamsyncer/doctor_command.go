package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"steamsyncer/internal/notifications"
	"steamsyncer/internal/preflight"
	"steamsyncer/internal/steam"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var notify bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check Steam, profile, artwork, and folder readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.logger()
			results := preflight.RunAll(cmd.Context(), cfg, logger)
			controller := steam.NewController(time.Second, logger)
			results = append(results, preflight.ProbeSteam(cmd.Context(), controller).Result())

			if notify {
				r := preflight.Result{Name: "Notifications", Optional: true}
				if cfg.Notifications.NtfyTopic == "" {
					r.Detail = "ntfy topic not configured"
				} else if err := notifications.NewService(cfg).TestNotification(cmd.Context()); err != nil {
					r.Detail = fmt.Sprintf("test notification failed (%v)", err)
				} else {
					r.Passed = true
					r.Detail = "test notification sent"
				}
				results = append(results, r)
			}

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				switch {
				case !r.Passed && r.Optional:
					status = "warn"
				case !r.Passed:
					status = "fail"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			out := cmd.OutOrStdout()
			if ctx.configPath != "" {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))
			if preflight.Failed(results) {
				return errors.New("one or more required checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&notify, "notify", false, "Also send a test notification")
	return cmd
}
