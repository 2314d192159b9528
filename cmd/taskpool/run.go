package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/taskpool/internal/config"
	"github.com/kubev2v/taskpool/internal/server"
	"github.com/kubev2v/taskpool/internal/workload"
	"github.com/kubev2v/taskpool/pkg/taskpool"
)

func newRunCommand() *cobra.Command {
	cfg := config.NewConfigurationWithDefaults()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured workloads and report the results",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.NewViper(cmd.Flags())
			if err != nil {
				return err
			}
			if err := config.ApplyEnv(cmd.Flags(), v); err != nil {
				return fmt.Errorf("failed to read environment: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("failed to validate configuration: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfg)
		},
	}
	config.RegisterFlags(cmd.Flags(), cfg)
	return cmd
}

func run(cmd *cobra.Command, cfg *config.Configuration) error {
	logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	defer func() { _ = logger.Sync() }()

	zap.S().Named("taskpool").Infow("using configuration", "config", cfg.DebugMap())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := []taskpool.Option{
		taskpool.WithWorkers(cfg.Pool.Workers),
		taskpool.WithDrainBackoff(cfg.Pool.DrainInitialInterval, cfg.Pool.DrainMaxInterval),
	}

	var srv *server.Server
	if cfg.Metrics.Enabled {
		opts = append(opts, taskpool.WithMetrics(reg))
		srv = server.NewServer(cfg.Metrics.Port, reg)
		go func() {
			if err := srv.Start(ctx); err != nil {
				zap.S().Errorw("metrics server failed", "error", err)
			}
		}()
	}

	report := workload.NewRunner(cfg.Workload, func() *taskpool.TaskPool {
		return taskpool.New(opts...)
	}).Run(ctx)
	report.Print(cmd.OutOrStdout())

	if srv != nil {
		linger(ctx, cfg.Metrics.Linger)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			zap.S().Warnw("failed to stop metrics server", "error", err)
		}
	}

	if n := report.Failed(); n > 0 {
		return fmt.Errorf("%d of %d workloads failed", n, len(report.Results))
	}
	return nil
}

func linger(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	zap.S().Infow("serving metrics after the run", "duration", d)
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
