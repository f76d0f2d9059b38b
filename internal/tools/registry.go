package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers all tools with the MCP server.
// This is called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	// Ping tool - test/placeholder
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Test tool - responds with pong or echoes input",
	}, NewPingHandler(deps))

	// Driver hooks: one call when an action is decided, one when it ran
	mcp.AddTool(server, &mcp.Tool{
		Name:        "record_action",
		Description: "Record a decided action as a new pending step in the run's history",
	}, NewRecordActionHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "record_result",
		Description: "Attach the execution outcome to the pending step",
	}, NewRecordResultHandler(deps))

	// Digest for prompt re-injection
	mcp.AddTool(server, &mcp.Tool{
		Name:        "progress",
		Description: "Compile the bounded progress digest of the recorded steps",
	}, NewProgressHandler(deps))

	// Eager summarization pass
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compress",
		Description: "Run a synchronous summarization pass over older resolved steps",
	}, NewCompressHandler(deps))

	// Runtime statistics
	mcp.AddTool(server, &mcp.Tool{
		Name:        "stats",
		Description: "Report ledger shape and runtime metrics",
	}, NewStatsHandler(deps))
}
