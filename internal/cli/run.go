package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"CallbackNotifier/internal/app"
	"CallbackNotifier/internal/config"
	"CallbackNotifier/internal/schedule"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Check every active MIS once and send an alert if needed",
	RunE:  runOnce,
}

func runOnce(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	application, err := buildApp(ctx, nil)
	if err != nil {
		return err
	}
	defer application.Close()

	result, err := application.Run(ctx, resolveWindow(cmd, application.DefaultWindow()))
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Status.Describe())
	return nil
}

func buildApp(ctx context.Context, reg prometheus.Registerer) (*app.Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	application, err := app.New(ctx, cfg, app.Options{Registry: reg})
	if err != nil {
		return nil, fmt.Errorf("build application: %w", err)
	}
	return application, nil
}

// resolveWindow prefers explicit flags over configured (env-derived) horizons.
func resolveWindow(cmd *cobra.Command, window schedule.Window) schedule.Window {
	flags := cmd.Flags()
	if flags.Changed("future-min") {
		window.FutureMin, _ = flags.GetInt("future-min")
	}
	if flags.Changed("lookback-hrs") {
		window.LookbackHrs, _ = flags.GetInt("lookback-hrs")
	}
	return window
}
