package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/asar-pipeline/internal/patch"
	"github.com/oshokin/asar-pipeline/internal/service/patcher"
	"github.com/oshokin/asar-pipeline/internal/version"
)

var (
	// manifestPath to the patch manifest YAML file.
	manifestPath string

	// rootCmd represents the base command applying patches to an unpacked tree.
	rootCmd = &cobra.Command{
		Use:   "asar-patcher [unpacked-dir]",
		Short: "Apply token-replacement patches to an unpacked application directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &patcher.Options{
				ManifestPath: manifestPath,
				TargetDir:    args[0],
			}

			return patcher.Run(ctx, options)
		},
	}
)

// Execute runs the asar-patcher CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&manifestPath, "patches", "p", patch.DefaultManifestFilename, "path to patch manifest file")
}
