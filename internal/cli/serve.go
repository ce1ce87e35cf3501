package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"CallbackNotifier/internal/domain"
	"CallbackNotifier/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the run-now endpoint and optional cron schedule",
	Long: `serve exposes GET / (liveness), GET /run-bot (one run with the configured
horizons) and GET /metrics. When server.cron is set, runs are also triggered on
that schedule.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	application, err := buildApp(ctx, reg)
	if err != nil {
		return err
	}
	defer application.Close()

	logger := application.Logger()
	window := resolveWindow(cmd, application.DefaultWindow())

	if sched := application.Scheduler(window); sched != nil {
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer sched.Stop(context.Background())
		logger.Info("cron schedule active", "cron", application.Config().Server.Cron)
	}

	runner := server.RunnerFunc(func(ctx context.Context) (domain.RunResult, error) {
		return application.Run(ctx, window)
	})
	handler := server.NewRouter(runner, reg, logger.With("component", "http"))

	return server.ListenAndServe(ctx, application.Config().Server.Addr, handler, logger)
}
