package main

import (
	"github.com/spf13/cobra"

	"github.com/hamed0406/devstack/internal/probe"
)

func newCheckCmd(a *app) *cobra.Command {
	var ordered bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe every service's health endpoint once and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.console.Header()

			if ordered {
				rep := a.prober().Run(cmd.Context(), a.cfg.Targets())
				a.console.Report(rep)
				return nil
			}

			// lines print as each probe settles, the summary after all of them
			rep := a.prober(probe.WithObserver(a.console)).Run(cmd.Context(), a.cfg.Targets())
			a.console.Summary(rep.Tally)
			return nil
		},
	}
	cmd.Flags().BoolVar(&ordered, "ordered", false, "print results in configuration order after all probes finish")
	return cmd
}
