package main

import (
	"os/signal"
	"syscall"

	"github.com/rgehrsitz/pvfin/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		addr := serveAddr
		if addr == "" && settings != nil {
			addr = settings.Server.Addr
		}

		opts := server.Options{}
		if settings != nil {
			opts.SweepWorkers = settings.Sensitivity.Workers
			opts.AllowedOrigins = settings.Server.AllowedOrigins
			opts.HeavyRate = settings.Server.HeavyRate
			opts.HeavyBurst = settings.Server.HeavyBurst
		}

		zap.L().Info("starting server", zap.String("addr", addr))
		return server.New(newEngine(), st, zap.L(), opts).ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from settings)")
	rootCmd.AddCommand(serveCmd)
}
