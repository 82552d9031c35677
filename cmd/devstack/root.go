package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/devstack/internal/config"
	"github.com/hamed0406/devstack/internal/logging"
	"github.com/hamed0406/devstack/internal/probe"
	"github.com/hamed0406/devstack/internal/report"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string

	cfg     *config.Config
	logger  *zap.Logger
	console *report.Console
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "devstack",
		Short: "Start, stop and health-check the local backend services",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.OutOrStdout())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a devstack YAML config (default: ./devstack.yaml or ./config/devstack.yaml)")

	cmd.AddCommand(
		newCheckCmd(a),
		newStartCmd(a),
		newStopCmd(a),
		newServeCmd(a),
		newMockCmd(a),
	)
	return cmd
}

func (a *app) init(out io.Writer) error {
	a.console = report.NewConsole(out)

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	log, err := logging.NewLogger(cfg.Log.Dir, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg = cfg
	a.logger = log
	return nil
}

func (a *app) prober(opts ...probe.Option) *probe.Prober {
	base := []probe.Option{
		probe.WithTimeout(a.cfg.Timeout),
		probe.WithPath(a.cfg.HealthPath),
		probe.WithLogger(a.logger),
	}
	return probe.NewProber(append(base, opts...)...)
}
