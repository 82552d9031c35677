package main

import (
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/hamed0406/devstack/internal/launcher"
	"github.com/hamed0406/devstack/internal/shell"
)

func newStartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Open every service in its own terminal window (Windows), then check health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(a.cfg.BackendDir)
			if err != nil {
				return err
			}
			l := &launcher.Launcher{
				BackendDir: dir,
				Services:   a.cfg.Services,
				Host:       a.cfg.Host,
				GOOS:       runtime.GOOS,
				InitWait:   a.cfg.InitWait,
				Runner:     shell.ExecRunner{},
				Health:     a.prober(),
				Console:    a.console,
				Logger:     a.logger,
			}
			return l.Run(cmd.Context())
		},
	}
}
