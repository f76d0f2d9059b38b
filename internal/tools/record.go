package tools

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/retrace-go/internal/history"
	"github.com/raphaelgruber/retrace-go/internal/metrics"
	"github.com/raphaelgruber/retrace-go/internal/models"
)

// RecordActionInput defines the input schema for the record_action tool.
type RecordActionInput struct {
	Action    string            `json:"action,omitempty" jsonschema:"Free-text description of the chosen action (ignored when 'tool' is set)"`
	Tool      string            `json:"tool,omitempty" jsonschema:"Tool name for a structured action"`
	Args      map[string]string `json:"args,omitempty" jsonschema:"Tool arguments for a structured action"`
	Reasoning string            `json:"reasoning,omitempty" jsonschema:"Why this action was chosen"`
}

// RecordActionResult reports the step number assigned to the new episode.
type RecordActionResult struct {
	Step    int  `json:"step"`
	Pending bool `json:"pending"`
}

// NewRecordActionHandler creates the record_action tool handler. The
// driver calls it once an action is decided, before execution.
func NewRecordActionHandler(deps *Dependencies) mcp.ToolHandlerFor[RecordActionInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RecordActionInput) (
		*mcp.CallToolResult, any, error,
	) {
		start := time.Now()

		var action models.Formatter
		switch {
		case input.Tool != "":
			action = models.ActionCall{Tool: input.Tool, Args: input.Args, Reasoning: input.Reasoning}
		case input.Action != "":
			action = models.TextPayload(input.Action)
		default:
			return ErrorResult("Missing action", "Provide free-text 'action' or a structured 'tool' call"), nil, nil
		}

		deps.Recorder.AfterAction(action)
		deps.Metrics.RecordTiming(metrics.OpRecordAction, time.Since(start))

		result := RecordActionResult{
			Step:    deps.Ledger.Len(),
			Pending: true,
		}
		jsonBytes, _ := json.MarshalIndent(result, "", "  ")

		deps.Logger.Info("action recorded", "step", result.Step)
		return TextResult(string(jsonBytes)), nil, nil
	}
}

// RecordResultInput defines the input schema for the record_result tool.
type RecordResultInput struct {
	Result string `json:"result,omitempty" jsonschema:"Output of the executed action"`
	Status string `json:"status,omitempty" jsonschema:"Outcome status: 'success' (default) or 'error' or 'interrupted'"`
	Error  string `json:"error,omitempty" jsonschema:"Error message when status is 'error'"`
}

// RecordResultResult reports which step was resolved.
type RecordResultResult struct {
	Step   int    `json:"step"`
	Status string `json:"status"`
}

// NewRecordResultHandler creates the record_result tool handler. The
// driver calls it once per action, after execution; compression of older
// episodes is triggered in the background.
func NewRecordResultHandler(deps *Dependencies) mcp.ToolHandlerFor[RecordResultInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RecordResultInput) (
		*mcp.CallToolResult, any, error,
	) {
		start := time.Now()

		status := input.Status
		if status == "" {
			status = models.StatusSuccess
		}
		switch status {
		case models.StatusSuccess, models.StatusError, models.StatusInterrupted:
		default:
			return ErrorResult("Invalid status", "Use 'success', 'error' or 'interrupted'"), nil, nil
		}

		outcome := models.Outcome{Status: status, Output: input.Result, Error: input.Error}

		// The background compression pass must outlive this request.
		if err := deps.Recorder.AfterResult(context.WithoutCancel(ctx), outcome); err != nil {
			if errors.Is(err, history.ErrNoPendingEpisode) {
				return ErrorResult("No pending action to resolve", "Call record_action before record_result"), nil, nil
			}
			deps.Logger.Error("record result failed", "error", err)
			return ErrorResult("Failed to record result", err.Error()), nil, nil
		}
		deps.Metrics.RecordTiming(metrics.OpRecordResult, time.Since(start))

		result := RecordResultResult{
			Step:   deps.Ledger.Len(),
			Status: status,
		}
		jsonBytes, _ := json.MarshalIndent(result, "", "  ")

		deps.Logger.Info("result recorded", "step", result.Step, "status", status)
		return TextResult(string(jsonBytes)), nil, nil
	}
}
