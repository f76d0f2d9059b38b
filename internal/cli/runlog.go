package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphaelgruber/retrace-go/internal/history"
	"github.com/raphaelgruber/retrace-go/internal/models"
	"gopkg.in/yaml.v3"
)

// runlogEntry is one recorded step in a run-log file. Either free-text
// action or a structured tool call; the result side mirrors the outcome
// payload. Summaries round-trip so a compressed log stays compressed.
type runlogEntry struct {
	Action    string            `json:"action,omitempty" yaml:"action,omitempty"`
	Tool      string            `json:"tool,omitempty" yaml:"tool,omitempty"`
	Args      map[string]string `json:"args,omitempty" yaml:"args,omitempty"`
	Reasoning string            `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	Result    string            `json:"result,omitempty" yaml:"result,omitempty"`
	Status    string            `json:"status,omitempty" yaml:"status,omitempty"`
	Error     string            `json:"error,omitempty" yaml:"error,omitempty"`
	Summary   string            `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// resolved reports whether the entry carries an execution outcome.
func (e runlogEntry) resolved() bool {
	return e.Result != "" || e.Status != "" || e.Error != ""
}

// loadEntries reads a run log. YAML (list of steps) for .yaml/.yml,
// JSONL (one step per line) otherwise.
func loadEntries(path string) ([]runlogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run log: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var entries []runlogEntry
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse YAML run log: %w", err)
		}
		return entries, nil
	default:
		return parseJSONL(data)
	}
}

func parseJSONL(data []byte) ([]runlogEntry, error) {
	var entries []runlogEntry
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var entry runlogEntry
		if err := json.Unmarshal([]byte(text), &entry); err != nil {
			return nil, fmt.Errorf("parse run log line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan run log: %w", err)
	}
	return entries, nil
}

// buildLedger replays run-log entries through the ledger API so the same
// invariants hold as in a live run. Entry order is step order.
func buildLedger(entries []runlogEntry) (*history.Ledger, error) {
	ledger := history.NewLedger()

	for i, entry := range entries {
		var action models.Formatter
		switch {
		case entry.Tool != "":
			action = models.ActionCall{Tool: entry.Tool, Args: entry.Args, Reasoning: entry.Reasoning}
		case entry.Action != "":
			action = models.TextPayload(entry.Action)
		default:
			return nil, fmt.Errorf("run log entry %d: missing action", i+1)
		}

		episode := ledger.RegisterAction(action)

		if entry.resolved() {
			status := entry.Status
			if status == "" {
				status = models.StatusSuccess
			}
			outcome := models.Outcome{Status: status, Output: entry.Result, Error: entry.Error}
			if err := ledger.RegisterResult(outcome); err != nil {
				return nil, fmt.Errorf("run log entry %d: %w", i+1, err)
			}
		}

		if entry.Summary != "" {
			if err := ledger.SetSummary(episode.ID, entry.Summary); err != nil {
				return nil, fmt.Errorf("run log entry %d: %w", i+1, err)
			}
		}
	}

	return ledger, nil
}

// writeEntries writes a run log back out in the format implied by the
// path extension.
func writeEntries(path string, entries []runlogEntry) error {
	var data []byte

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		out, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshal YAML run log: %w", err)
		}
		data = out
	default:
		var b strings.Builder
		for i, entry := range entries {
			line, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("marshal run log entry %d: %w", i+1, err)
			}
			b.Write(line)
			b.WriteByte('\n')
		}
		data = []byte(b.String())
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write run log: %w", err)
	}
	return nil
}
