package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"GoNFA/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the compile and match HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			a.logger.Info("starting GoNFA",
				"version", Version,
				"addr", a.cfg.Server.Addr,
				"cache_size", a.cfg.Server.CacheSize,
				"config", a.configPath,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, server.New(a.cfg, a.logger), a.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
