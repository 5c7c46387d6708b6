package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"encodeflow/internal/config"
	"encodeflow/internal/daemon"
	"encodeflow/internal/logging"
	"encodeflow/internal/preflight"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the watcher and encoder in the foreground",
		Long: "Watch the configured folder and encode every new matching file, one at a time.\n" +
			"SIGINT or SIGTERM stops detection and waits for a running encode to finish.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemonProcess(cmd.Context(), ctx)
		},
	}
}

func runDaemonProcess(cmdCtx context.Context, ctx *commandContext) error {
	if cmdCtx == nil {
		cmdCtx = context.Background()
	}
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logStartup(logger, cfg, ctx.configPath)

	d, err := daemon.Build(cfg, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logging.ErrorWithContext(logger, "daemon start failed", "daemon_start_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the watch directory exists and no other instance is running"),
		)
		return err
	}

	<-signalCtx.Done()
	logger.Info("encodeflow shutting down; waiting for any running encode")
	d.Stop()
	return nil
}

func logStartup(logger *slog.Logger, cfg *config.Config, configPath string) {
	logger.Info("encodeflow starting",
		logging.String("config", configPath),
		logging.String("encoder_binary", cfg.Encoder.Binary),
		logging.String("pre_input_args", cfg.Encoder.PreInputArgs),
		logging.String("post_input_args", cfg.Encoder.PostInputArgs),
		logging.String("watch_dir", cfg.Paths.WatchDir),
		logging.String("output_dir", cfg.Paths.OutputDir),
		logging.String("filter", cfg.Watch.Filter),
		logging.Int("max_retries", cfg.Workflow.MaxRetries),
		logging.Bool("require_stable_size", cfg.Watch.RequireStableSize),
	)
	for _, result := range preflight.RunAll(cfg) {
		if result.Passed {
			logger.Info("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
			)
			continue
		}
		logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "run encodeflow check for details"),
		)
	}
}
