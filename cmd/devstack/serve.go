package main

import (
	"github.com/spf13/cobra"

	"github.com/hamed0406/devstack/internal/httpapi"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the health report over HTTP at /api/status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.API.Addr
			}
			api := httpapi.NewServer(a.logger, a.prober(), a.cfg.Targets())
			a.console.Step("🌐", "Serving status on http://"+addr+"/api/status")
			return httpapi.ListenAndServe(cmd.Context(), httpapi.NewHTTPServer(addr, api.Router()), a.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config api.addr)")
	return cmd
}
