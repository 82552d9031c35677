package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/hamed0406/devstack/internal/shell"
	"github.com/hamed0406/devstack/internal/stopper"
)

func newStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Kill every process matching the configured service pattern",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &stopper.Stopper{
				Runner:  shell.ExecRunner{},
				GOOS:    runtime.GOOS,
				Image:   a.cfg.Stop.Image,
				Pattern: a.cfg.Stop.Pattern,
				Logger:  a.logger,
			}
			return s.Run(cmd.Context(), a.console)
		},
	}
}
