package models

import "testing"

func TestActionCallFormat(t *testing.T) {
	tests := []struct {
		name string
		in   ActionCall
		want string
	}{
		{
			"bare tool",
			ActionCall{Tool: "read_file"},
			"Executed `read_file()`",
		},
		{
			"args sorted",
			ActionCall{Tool: "search", Args: map[string]string{"query": "go", "limit": "5"}},
			"Executed `search(limit=\"5\", query=\"go\")`",
		},
		{
			"with reasoning",
			ActionCall{Tool: "ping", Reasoning: "check liveness"},
			"Executed `ping()`\nReasoning: check liveness",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Format()
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutcomeFormat(t *testing.T) {
	tests := []struct {
		name string
		in   Outcome
		want string
	}{
		{"success with output", Outcome{Status: StatusSuccess, Output: "42 rows"}, "42 rows"},
		{"success without output", Outcome{Status: StatusSuccess}, "Action succeeded"},
		{"error with message", Outcome{Status: StatusError, Error: "timeout"}, "Action failed: timeout"},
		{"error without message", Outcome{Status: StatusError}, "Action failed"},
		{"interrupted", Outcome{Status: StatusInterrupted}, "Action interrupted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Format()
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEpisodeFormat(t *testing.T) {
	episode := &Episode{
		ID:     "ep-1",
		Action: TextPayload("inspect logs"),
	}

	pending := episode.Format()
	if pending != "inspect logs\n\nStatus: in progress" {
		t.Errorf("pending Format() = %q", pending)
	}

	episode.Result = TextPayload("no errors found")
	resolved := episode.Format()
	if resolved != "inspect logs\n\nno errors found" {
		t.Errorf("resolved Format() = %q", resolved)
	}

	// Deterministic: repeated calls render identically.
	if episode.Format() != resolved {
		t.Error("Format() is not deterministic")
	}
}
