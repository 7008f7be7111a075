package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethpandaops/panda-wheel/pkg/logger"
	"github.com/ethpandaops/panda-wheel/pkg/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:          "panda-wheel",
		Short:        "Discord bot for weighted wheels of chance",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newBotCmd(), newRenderCmd(), newCleanupCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newBotCmd() *cobra.Command {
	var logLevel, logFormat string

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run as a Discord bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := service.LoadConfig()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = logFormat
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runBot(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (overrides LOG_LEVEL)")
	cmd.Flags().StringVar(&logFormat, "log-format", logger.FormatText, "log format, text or json (overrides LOG_FORMAT)")

	return cmd
}

// runBot runs the service until interrupted.
func runBot(ctx context.Context, cfg *service.Config) error {
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := service.NewService(ctx, log, cfg)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if err := svc.Start(ctx); err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if stopErr := svc.Stop(shutdownCtx); stopErr != nil {
			log.WithError(stopErr).Error("Failed to stop service")
		}

		return fmt.Errorf("failed to start service: %w", err)
	}

	<-ctx.Done()

	log.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return svc.Stop(shutdownCtx)
}
