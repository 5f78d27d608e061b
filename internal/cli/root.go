// Package cli provides the command-line interface for brandkit.
package cli

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/brandkit/internal/colour"
	"github.com/jmylchreest/brandkit/internal/version"
)

var (
	// Global flags
	globalVerbose  bool
	globalQuiet    bool
	globalLogJSON  bool
	globalLogLevel levelFlag
)

// NewRootCmd builds the brandkit command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "brandkit",
		Short: "Extract brand colour palettes from images",
		Long: `brandkit extracts a small, perceptually distinct brand palette from an image.

Each colour is named, ranked by how much of the image it covers, and labelled
with a usage tier (dominant, primary, secondary, accent, minor). Near-white,
near-black and near-duplicate colours are left out of curated palettes.

Use it on single images, whole directories, or as an HTTP service.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	globalLogLevel = "warn"
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "enable verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVarP(&globalQuiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&globalLogJSON, "log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().Var(&globalLogLevel, "log-level", "log level (trace, debug, info, warn, error, off)")
	rootCmd.PersistentFlags().BoolVar(&colour.DisableColourOutput, "no-color", false, "disable colour previews")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// newLogger builds the command logger from the global flags. An explicit
// --log-level wins over --verbose and --quiet.
func newLogger(cmd *cobra.Command, w io.Writer) hclog.Logger {
	level := hclog.LevelFromString(string(globalLogLevel))
	if !cmd.Flags().Changed("log-level") {
		switch {
		case globalVerbose:
			level = hclog.Debug
		case globalQuiet:
			level = hclog.Error
		}
	}

	color := hclog.AutoColor
	if globalLogJSON {
		color = hclog.ColorOff
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       "brandkit",
		Output:     w,
		Level:      level,
		JSONFormat: globalLogJSON,
		Color:      color,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
