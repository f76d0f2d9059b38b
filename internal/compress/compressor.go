// Package compress fills in missing episode summaries by invoking an
// external summarizer collaborator.
package compress

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/raphaelgruber/retrace-go/internal/history"
	"github.com/raphaelgruber/retrace-go/internal/metrics"
	"github.com/raphaelgruber/retrace-go/internal/models"
)

// Summarizer produces a short text standing in for a full episode
// rendering. Implementations typically call an LLM and may fail per
// episode without poisoning the rest of a pass.
type Summarizer interface {
	Summarize(ctx context.Context, episode *models.Episode) (string, error)
}

// PassStats reports the outcome of one compression pass.
type PassStats struct {
	Summarized int `json:"summarized"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// Compressor runs summarization passes over a ledger: every resolved
// episode outside the most recent window that lacks a summary gets one.
// Passes are idempotent and cancellation-safe; summaries already written
// stand, missing ones are retried on the next pass.
type Compressor struct {
	summarizer Summarizer
	window     int
	logger     *slog.Logger
	metrics    *metrics.Collector
	inflight   atomic.Bool
}

// Compile-time check that Compressor implements history.CompressionRequester.
var _ history.CompressionRequester = (*Compressor)(nil)

// New creates a compressor. window <= 0 falls back to the digest
// compiler's full-detail window, so summarization starts exactly where
// full rendering stops.
func New(summarizer Summarizer, window int, logger *slog.Logger, collector *metrics.Collector) *Compressor {
	if window <= 0 {
		window = history.RecentFullSteps
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Compressor{
		summarizer: summarizer,
		window:     window,
		logger:     logger,
		metrics:    collector,
	}
}

// Request triggers a pass on a background goroutine and returns
// immediately. A pass already in flight absorbs the request; the episodes
// it would have covered are picked up by the next one.
func (c *Compressor) Request(ctx context.Context, ledger *history.Ledger) {
	if !c.inflight.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.inflight.Store(false)
		c.Run(ctx, ledger)
	}()
}

// Run executes one synchronous pass with the configured window.
func (c *Compressor) Run(ctx context.Context, ledger *history.Ledger) PassStats {
	return c.RunWindow(ctx, ledger, c.window)
}

// RunWindow executes one synchronous pass leaving the most recent window
// episodes untouched. Summarizer failures are isolated per episode:
// logged, counted, and left absent so a later pass can retry.
func (c *Compressor) RunWindow(ctx context.Context, ledger *history.Ledger, window int) PassStats {
	if window <= 0 {
		window = c.window
	}
	start := time.Now()
	episodes := ledger.Episodes()

	var stats PassStats
	cutoff := len(episodes) - window

	for i, episode := range episodes {
		if i >= cutoff {
			break
		}
		if episode.Pending() || episode.Summarized() {
			stats.Skipped++
			continue
		}
		if ctx.Err() != nil {
			c.logger.Warn("compression pass cancelled", "remaining", cutoff-i)
			break
		}

		summary, err := c.summarizer.Summarize(ctx, episode)
		if err != nil {
			stats.Failed++
			c.logger.Error("summarize failed", "episode", episode.ID, "error", err)
			continue
		}
		summary = strings.TrimSpace(summary)
		if summary == "" {
			stats.Failed++
			c.logger.Error("summarizer returned empty text", "episode", episode.ID)
			continue
		}

		if err := ledger.SetSummary(episode.ID, summary); err != nil {
			// A concurrent pass beat us to it; the episode is covered either way.
			if errors.Is(err, history.ErrSummaryExists) {
				stats.Skipped++
				continue
			}
			stats.Failed++
			c.logger.Error("store summary failed", "episode", episode.ID, "error", err)
			continue
		}
		stats.Summarized++
	}

	if c.metrics != nil {
		c.metrics.RecordTiming(metrics.OpCompressPass, time.Since(start))
	}
	c.logger.Info("compression pass finished",
		"summarized", stats.Summarized,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return stats
}
