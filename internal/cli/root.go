// Package cli provides the command-line interface for retrace.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "retrace",
	Short: "Inspect and compress recorded agent runs",
	Long: `Retrace keeps the action history of an autonomous agent and compiles it
into a bounded progress digest for prompt re-injection.

The CLI works offline on recorded run logs (JSONL or YAML): print the
digest under a token budget, fill in step summaries with a configured
LLM, or inspect the shape and token cost of a run.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// CLI logging goes to stderr only; quiet unless -v.
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(statsCmd)
}
