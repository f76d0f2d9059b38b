package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/retrace-go/internal/models"
)

// Ledger is the append-only ordered record of one agent run. Index 0 is
// the oldest episode, the last element the most recent. It grows by
// appending an action-only episode and by resolving the newest episode
// with its result; it never shrinks or reorders.
//
// All methods are safe for concurrent use. Reads hand out snapshot
// copies taken under the lock, so a digest compiled from Episodes never
// observes a half-written result or summary.
type Ledger struct {
	mu       sync.RWMutex
	episodes []*models.Episode
}

// NewLedger creates an empty ledger for a fresh agent run.
func NewLedger() *Ledger {
	return &Ledger{
		episodes: make([]*models.Episode, 0),
	}
}

// RegisterAction appends a new pending episode for the given action and
// returns it. Always legal, even while an earlier episode is unresolved.
func (l *Ledger) RegisterAction(action models.Formatter) *models.Episode {
	episode := &models.Episode{
		ID:        uuid.New().String()[:8], // Short ID for convenience
		Action:    action,
		CreatedAt: time.Now(),
	}

	l.mu.Lock()
	l.episodes = append(l.episodes, episode)
	l.mu.Unlock()

	return episode
}

// RegisterResult resolves the most recent episode with the given result.
// Returns ErrNoPendingEpisode when the ledger is empty or the newest
// episode is already resolved; it never overwrites an existing result.
func (l *Ledger) RegisterResult(result models.Formatter) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.episodes) == 0 {
		return fmt.Errorf("%w: ledger is empty", ErrNoPendingEpisode)
	}

	latest := l.episodes[len(l.episodes)-1]
	if latest.Result != nil {
		return fmt.Errorf("%w: episode %s is already resolved", ErrNoPendingEpisode, latest.ID)
	}

	now := time.Now()
	latest.Result = result
	latest.ResolvedAt = &now
	return nil
}

// SetSummary attaches a compression summary to the episode with the given
// ID. First write wins: a second write returns ErrSummaryExists so a
// summary is never recomputed behind a reader's back.
func (l *Ledger) SetSummary(id, summary string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, episode := range l.episodes {
		if episode.ID != id {
			continue
		}
		if episode.Summary != nil {
			return fmt.Errorf("%w: episode %s", ErrSummaryExists, id)
		}
		episode.Summary = &summary
		return nil
	}

	return fmt.Errorf("%w: %s", ErrEpisodeNotFound, id)
}

// Episodes returns the ordered view of all episodes, oldest first.
// Every episode is a snapshot taken under the lock: results and
// summaries written after the call do not show through, so callers can
// render without holding any lock.
func (l *Ledger) Episodes() []*models.Episode {
	l.mu.RLock()
	defer l.mu.RUnlock()

	episodes := make([]*models.Episode, len(l.episodes))
	for i, episode := range l.episodes {
		snapshot := *episode
		episodes[i] = &snapshot
	}
	return episodes
}

// Pending returns a snapshot of the newest episode if it is still
// unresolved, nil otherwise.
func (l *Ledger) Pending() *models.Episode {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.episodes) == 0 {
		return nil
	}
	latest := l.episodes[len(l.episodes)-1]
	if latest.Result != nil {
		return nil
	}
	snapshot := *latest
	return &snapshot
}

// Len returns the number of recorded episodes.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.episodes)
}
