package tools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CompressInput defines the input schema for the compress tool.
type CompressInput struct {
	Window int `json:"window,omitempty" jsonschema:"Recent steps to leave uncompressed (0 uses the configured default)"`
}

// NewCompressHandler creates the compress tool handler: a synchronous
// summarization pass over the ledger, for drivers that want to compress
// eagerly instead of relying on the background trigger.
func NewCompressHandler(deps *Dependencies) mcp.ToolHandlerFor[CompressInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CompressInput) (
		*mcp.CallToolResult, any, error,
	) {
		if deps.Compressor == nil {
			return ErrorResult("Summarizer not configured", "Set RETRACE_LLM_PROVIDER to enable compression"), nil, nil
		}

		stats := deps.Compressor.RunWindow(ctx, deps.Ledger, input.Window)
		jsonBytes, _ := json.MarshalIndent(stats, "", "  ")
		return TextResult(string(jsonBytes)), nil, nil
	}
}
