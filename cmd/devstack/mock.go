package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/devstack/internal/devtools"
)

func newMockCmd(a *app) *cobra.Command {
	var failing, hanging []string

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run fake services that answer the health endpoint on the configured ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			modes := make(map[string]devtools.Mode, len(failing)+len(hanging))
			for _, n := range failing {
				modes[n] = devtools.ModeFailing
			}
			for _, n := range hanging {
				modes[n] = devtools.ModeHanging
			}

			fleet := devtools.NewFleet(a.logger, a.cfg.HealthPath, a.cfg.Targets(), modes)
			if err := fleet.Start(); err != nil {
				return err
			}
			for _, b := range fleet.Backends {
				a.console.Step("🟢", fmt.Sprintf("%-25s %s", b.Target.Name, b.Target.BaseURL()))
			}
			a.console.Note("\nPress Ctrl+C to stop.")

			<-cmd.Context().Done()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return fleet.Shutdown(ctx)
		},
	}
	cmd.Flags().StringSliceVar(&failing, "fail", nil, "service names that answer 500")
	cmd.Flags().StringSliceVar(&hanging, "hang", nil, "service names that never answer")
	return cmd
}
