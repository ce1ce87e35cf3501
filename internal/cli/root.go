package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "callbacknotifier",
	Short: "Callback alerts for MIS dashboards",
	Long: `callbacknotifier reads callback remarks from MIS dashboards and posts an alert
when a callback is due within --future-min minutes or was missed within the
last --lookback-hrs hours. Without a subcommand it performs a single run.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runOnce,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "path to config file (default: $CALLBACK_NOTIFIER_CONFIG or config.json)")
	flags.Int("future-min", 15, "minutes ahead to warn; overrides env FUTURE_MIN")
	flags.Int("lookback-hrs", 24, "hours behind to check missed; overrides env LOOKBACK_HOURS")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
