package tools

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/retrace-go/internal/history"
	"github.com/raphaelgruber/retrace-go/internal/metrics"
)

// ProgressInput defines the input schema for the progress tool.
type ProgressInput struct {
	MaxTokens int `json:"max_tokens,omitempty" jsonschema:"Token budget for the digest. 0 uses the configured default, -1 disables the budget"`
}

// NewProgressHandler creates the progress tool handler: it compiles the
// ledger into the bounded digest message for prompt re-injection.
func NewProgressHandler(deps *Dependencies) mcp.ToolHandlerFor[ProgressInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ProgressInput) (
		*mcp.CallToolResult, any, error,
	) {
		maxTokens := deps.MaxTokens
		switch {
		case input.MaxTokens > 0:
			maxTokens = input.MaxTokens
		case input.MaxTokens < 0:
			maxTokens = 0
		}

		start := time.Now()
		message, err := history.ProgressMessage(deps.Ledger.Episodes(), maxTokens, deps.CountTokens)
		if err != nil {
			if errors.Is(err, history.ErrCounterRequired) {
				return ErrorResult("No token counter configured", "Use max_tokens=-1 for an unbounded digest"), nil, nil
			}
			deps.Logger.Error("compile digest failed", "error", err)
			return ErrorResult("Failed to compile digest", err.Error()), nil, nil
		}
		deps.Metrics.RecordTiming(metrics.OpDigestCompile, time.Since(start))

		if message == "" {
			return TextResult("No progress recorded yet."), nil, nil
		}
		return TextResult(message), nil, nil
	}
}
