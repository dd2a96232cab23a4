package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"github.com/oshokin/asar-pipeline/internal/config"
	"github.com/oshokin/asar-pipeline/internal/logger"
	"github.com/oshokin/asar-pipeline/internal/service/pipeline"
	"github.com/oshokin/asar-pipeline/internal/version"
)

const (
	// logLevelEnvVar overrides the log level without a flag.
	logLevelEnvVar = "ASAR_PIPELINE_LOG_LEVEL"

	// stepFailedExitCode distinguishes a gated pipeline abort from setup errors.
	stepFailedExitCode = 2
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// strict checks every step's exit code, not just the patch step's.
	strict bool

	// logLevel overrides the default info level.
	logLevel string

	// rootCmd represents the base command running the patch pipeline.
	rootCmd = &cobra.Command{
		Use:   "asar-pipeline",
		Short: "Unpack, patch, and repack an Electron application archive",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			applyLogLevel(logLevel)

			options := &pipeline.Options{
				ConfigPath: config.PathFromEnv(configPath),
				Strict:     strict,
			}

			return pipeline.Run(ctx, options)
		},
	}
)

// Execute runs the asar-pipeline CLI and exits with non-zero status on error.
// A failed pipeline step maps to a distinct exit code.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, pipeline.ErrStepFailed) {
			os.Exit(stepFailedExitCode)
		}

		os.Exit(1)
	}
}

// applyLogLevel configures the global logger from the flag or the environment.
func applyLogLevel(flagValue string) {
	value := flagValue
	if value == "" {
		value = env.Str(logLevelEnvVar, "")
	}

	if lvl, ok := logger.ParseLogLevel(value); ok {
		logger.SetLevel(lvl)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "fail on any step's non-zero exit, not only the patch step's")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, fatal)")
}
