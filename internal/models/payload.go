package models

import (
	"fmt"
	"sort"
	"strings"
)

// Formatter is the capability required of action and result payloads.
// The ledger treats payloads as opaque beyond this: Format must be
// deterministic and side-effect-free so digests are reproducible.
type Formatter interface {
	Format() string
}

// TextPayload is the simplest Formatter: a payload that is already text.
// MCP tools and run-log files produce these.
type TextPayload string

// Format implements Formatter.
func (p TextPayload) Format() string {
	return string(p)
}

// ActionCall is a structured action payload: a tool invocation the agent
// decided on, with optional reasoning.
type ActionCall struct {
	Tool      string            `json:"tool"`
	Args      map[string]string `json:"args,omitempty"`
	Reasoning string            `json:"reasoning,omitempty"`
}

// Format implements Formatter.
func (a ActionCall) Format() string {
	var b strings.Builder
	b.WriteString("Executed `")
	b.WriteString(a.Tool)
	b.WriteString("(")
	b.WriteString(formatArgs(a.Args))
	b.WriteString(")`")
	if a.Reasoning != "" {
		b.WriteString("\nReasoning: ")
		b.WriteString(a.Reasoning)
	}
	return b.String()
}

// Outcome statuses.
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusInterrupted = "interrupted"
)

// Outcome is a structured result payload: what happened when an action ran.
type Outcome struct {
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Format implements Formatter.
func (o Outcome) Format() string {
	switch o.Status {
	case StatusError:
		if o.Error != "" {
			return "Action failed: " + o.Error
		}
		return "Action failed"
	case StatusInterrupted:
		return "Action interrupted"
	default:
		if o.Output != "" {
			return o.Output
		}
		return "Action succeeded"
	}
}

// formatArgs renders tool arguments as a stable key=value list.
// Keys are sorted so Format stays deterministic across calls.
func formatArgs(args map[string]string) string {
	if len(args) == 0 {
		return ""
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, args[k])
	}
	return strings.Join(parts, ", ")
}
