// Package history owns the episode ledger and the bounded digest compiler.
package history

import "errors"

// Sentinel errors for ledger and digest operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNoPendingEpisode indicates a result was registered while no
	// unresolved episode exists: either the ledger is empty or the newest
	// episode already has a result. This is a driver bug, not a transient
	// condition, and is never retried internally.
	ErrNoPendingEpisode = errors.New("no pending episode")

	// ErrSummaryExists indicates a summary write was attempted on an
	// episode that already has one. Summaries are written once and reused.
	ErrSummaryExists = errors.New("summary already set")

	// ErrEpisodeNotFound indicates the referenced episode is not in the ledger.
	ErrEpisodeNotFound = errors.New("episode not found")

	// ErrCounterRequired indicates a token budget was requested without a
	// counting function to measure it. Raised before any rendering occurs.
	ErrCounterRequired = errors.New("token counter required when a budget is set")
)
