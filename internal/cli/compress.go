package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raphaelgruber/retrace-go/internal/compress"
	"github.com/raphaelgruber/retrace-go/internal/config"
	"github.com/raphaelgruber/retrace-go/internal/llm"
	"github.com/raphaelgruber/retrace-go/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	compressOutput string
	compressWindow int
)

var compressCmd = &cobra.Command{
	Use:   "compress <runlog>",
	Short: "Fill in missing step summaries with the configured LLM",
	Long: `Run a summarization pass over a recorded run: every resolved step
outside the recency window that lacks a summary gets one from the
configured LLM (RETRACE_LLM_PROVIDER, RETRACE_SUMMARY_MODEL).

Steps that already have a summary are skipped; per-step LLM failures are
reported and leave that step uncompressed for a later attempt.

Examples:
  retrace compress run.jsonl -o run-compressed.jsonl
  retrace compress run.yaml -o run.yaml --window 8`,
	Args: cobra.ExactArgs(1),
	RunE: runCompress,
}

func init() {
	compressCmd.Flags().StringVarP(&compressOutput, "output", "o", "", "output run log path (required)")
	compressCmd.Flags().IntVar(&compressWindow, "window", 0, "recent steps to leave uncompressed (0 = digest default)")
	_ = compressCmd.MarkFlagRequired("output")
}

func runCompress(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	entries, err := loadEntries(args[0])
	if err != nil {
		return err
	}
	ledger, err := buildLedger(entries)
	if err != nil {
		return err
	}

	cfg := config.Load()
	if !cfg.SummarizerConfigured() {
		return fmt.Errorf("no summarizer configured: set RETRACE_LLM_PROVIDER")
	}

	collector := metrics.NewCollector()
	model, err := llm.NewModel(ctx, cfg, collector)
	if err != nil {
		return fmt.Errorf("init summarizer model: %w", err)
	}

	compressor := compress.New(model, compressWindow, slog.Default(), collector)
	stats := compressor.Run(ctx, ledger)

	// Copy fresh summaries back onto the entries: ledger order is entry order.
	for i, episode := range ledger.Episodes() {
		if episode.Summarized() {
			entries[i].Summary = *episode.Summary
		}
	}
	if err := writeEntries(compressOutput, entries); err != nil {
		return err
	}

	fmt.Printf("Compressed %d steps (%d failed, %d skipped) -> %s\n",
		stats.Summarized, stats.Failed, stats.Skipped, compressOutput)
	return nil
}
