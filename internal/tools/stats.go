package tools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatsInput defines the input schema for the stats tool.
type StatsInput struct{}

// StatsResult combines ledger shape with runtime metrics.
type StatsResult struct {
	Episodes   int  `json:"episodes"`
	Pending    bool `json:"pending"`
	Summarized int  `json:"summarized"`
	Metrics    any  `json:"metrics"`
}

// NewStatsHandler creates the stats tool handler.
func NewStatsHandler(deps *Dependencies) mcp.ToolHandlerFor[StatsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (
		*mcp.CallToolResult, any, error,
	) {
		summarized := 0
		for _, episode := range deps.Ledger.Episodes() {
			if episode.Summarized() {
				summarized++
			}
		}

		result := StatsResult{
			Episodes:   deps.Ledger.Len(),
			Pending:    deps.Ledger.Pending() != nil,
			Summarized: summarized,
			Metrics:    deps.Metrics.Snapshot(),
		}
		jsonBytes, _ := json.MarshalIndent(result, "", "  ")
		return TextResult(string(jsonBytes)), nil, nil
	}
}
