// Package models defines the episode data model shared by the ledger,
// the digest compiler, and the tool/CLI surfaces.
package models

import (
	"strings"
	"time"
)

// Episode is one recorded (action, result, optional summary) unit in an
// agent's history.
//
// Action is set exactly once at creation. Result is nil until the action
// has been executed and transitions to non-nil exactly once. Summary is
// nil until a compression pass fills it in; once set it is reused by
// digest rendering instead of the full format.
type Episode struct {
	ID         string     `json:"id"`
	Action     Formatter  `json:"-"`
	Result     Formatter  `json:"-"`
	Summary    *string    `json:"summary,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// Pending reports whether the episode's action has not been resolved yet.
func (e *Episode) Pending() bool {
	return e.Result == nil
}

// Summarized reports whether a compression pass has produced a summary.
func (e *Episode) Summarized() bool {
	return e.Summary != nil
}

// Format renders the full verbatim text of the episode: the action
// followed by its result, or a pending marker while the result is absent.
// Deterministic and side-effect-free.
func (e *Episode) Format() string {
	var b strings.Builder
	b.WriteString(e.Action.Format())
	b.WriteString("\n\n")
	if e.Result == nil {
		b.WriteString("Status: in progress")
	} else {
		b.WriteString(e.Result.Format())
	}
	return b.String()
}
