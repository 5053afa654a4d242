package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/thorium-updater/internal/config"
	"github.com/oshokin/thorium-updater/internal/logger"
	"github.com/oshokin/thorium-updater/internal/service/updater"
	"github.com/oshokin/thorium-updater/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// assumeYes skips the confirmation prompt.
	assumeYes bool

	// logLevel is the console logging level.
	logLevel string

	// rootCmd represents the base command that runs the fixed
	// install-or-update flow.
	rootCmd = &cobra.Command{
		Use:   "thorium-updater",
		Short: "Install or update the Thorium browser",
		Long: "Detect an existing Thorium installation, compare it against the newest " +
			"published release, and install or update the build matching this machine's " +
			"CPU capability tier.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &updater.Options{
				ConfigPath: configPath,
				AssumeYes:  assumeYes,
			}

			return updater.Run(ctx, options)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the thorium-updater CLI and exits with non-zero status on
// error. The console pauses for a keypress before a fatal exit so the error
// stays readable; a user decline exits successfully.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.ErrorKV(context.Background(), "Updater run failed", "error", err)

		if !assumeYes {
			updater.PauseForKeypress()
		}

		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to the confirmation prompt")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error)")
}
