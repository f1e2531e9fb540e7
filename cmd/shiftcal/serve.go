package main

import (
	"github.com/spf13/cobra"

	appLog "shiftcal/internal/log"
	"shiftcal/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// --listen overrides config file listen if provided.
			if listen != "" {
				a.cfg.Listen = listen
			}
			appLog.Info("shiftcal starting", "version", version, "listen", a.cfg.Listen)
			return web.StartServer(cmd.Context(), a.cfg, a.pipe)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")
	return cmd
}
