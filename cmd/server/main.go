package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/asnanclinic/asnan-server/internal/app"
	"github.com/asnanclinic/asnan-server/internal/config"
	"github.com/asnanclinic/asnan-server/internal/log"
)

var (
	configPath string
	addr       string
)

func main() {
	serve := serveCmd()

	rootCmd := &cobra.Command{
		Use:   "asnan-server",
		Short: "Clinic WhatsApp relay and lead capture server",
		RunE:  serve.RunE,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	rootCmd.AddCommand(serve)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			bootLogger := log.New("info")

			cfg, path, err := config.Load(bootLogger, configPath)
			if err != nil {
				bootLogger.Error().Err(err).Str("path", path).Msg("failed to load config")
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			logger := log.New(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(cfg, logger)
			if err != nil {
				logger.Error().Err(err).Msg("failed to build application")
				return err
			}

			logger.Info().Str("addr", cfg.Addr).Str("config", path).Msg("starting asnan server")
			if err := application.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("server exited with error")
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}
}
