// Package tools provides MCP tool handlers and registration.
package tools

import (
	"log/slog"

	"github.com/raphaelgruber/retrace-go/internal/compress"
	"github.com/raphaelgruber/retrace-go/internal/history"
	"github.com/raphaelgruber/retrace-go/internal/metrics"
)

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Ledger   *history.Ledger
	Recorder history.Recorder

	// Compressor is nil when no summarizer is configured; the compress
	// tool reports that instead of failing the server.
	Compressor *compress.Compressor

	// CountTokens measures digest steps; nil disables token budgets.
	CountTokens history.TokenCountFunc

	// MaxTokens is the default digest budget when a progress call does
	// not specify one.
	MaxTokens int

	Metrics *metrics.Collector
	Logger  *slog.Logger
}
