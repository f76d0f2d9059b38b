package compress

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/raphaelgruber/retrace-go/internal/history"
	"github.com/raphaelgruber/retrace-go/internal/metrics"
	"github.com/raphaelgruber/retrace-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSummarizer summarizes deterministically and can be told to fail
// for specific episode IDs.
type fakeSummarizer struct {
	mu      sync.Mutex
	failing map[string]bool
	calls   int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, episode *models.Episode) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failing[episode.ID] {
		return "", fmt.Errorf("model unavailable")
	}
	return "summary of " + episode.ID, nil
}

func (f *fakeSummarizer) setFailing(id string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing == nil {
		f.failing = make(map[string]bool)
	}
	f.failing[id] = fail
}

// seedLedger records n resolved episodes and returns their IDs in order.
func seedLedger(t *testing.T, n int) (*history.Ledger, []string) {
	t.Helper()
	ledger := history.NewLedger()
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		episode := ledger.RegisterAction(models.TextPayload(fmt.Sprintf("action %d", i+1)))
		require.NoError(t, ledger.RegisterResult(models.TextPayload(fmt.Sprintf("result %d", i+1))))
		ids[i] = episode.ID
	}
	return ledger, ids
}

func TestRunSummarizesOutsideWindow(t *testing.T) {
	ledger, ids := seedLedger(t, 7)
	summarizer := &fakeSummarizer{}
	compressor := New(summarizer, 4, nil, nil)

	stats := compressor.Run(context.Background(), ledger)
	assert.Equal(t, 3, stats.Summarized)
	assert.Equal(t, 0, stats.Failed)

	episodes := ledger.Episodes()
	for i, episode := range episodes {
		if i < 3 {
			require.True(t, episode.Summarized(), "episode %d should be summarized", i+1)
			assert.Equal(t, "summary of "+ids[i], *episode.Summary)
		} else {
			assert.False(t, episode.Summarized(), "recent episode %d must stay full", i+1)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	ledger, _ := seedLedger(t, 6)
	summarizer := &fakeSummarizer{}
	compressor := New(summarizer, 4, nil, metrics.NewCollector())

	first := compressor.Run(context.Background(), ledger)
	assert.Equal(t, 2, first.Summarized)

	second := compressor.Run(context.Background(), ledger)
	assert.Equal(t, 0, second.Summarized)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, 2, summarizer.calls, "already-summarized episodes must not hit the summarizer")
}

func TestRunIsolatesFailures(t *testing.T) {
	ledger, ids := seedLedger(t, 6)
	summarizer := &fakeSummarizer{}
	summarizer.setFailing(ids[0], true)
	compressor := New(summarizer, 4, nil, nil)

	stats := compressor.Run(context.Background(), ledger)
	assert.Equal(t, 1, stats.Summarized)
	assert.Equal(t, 1, stats.Failed)

	episodes := ledger.Episodes()
	assert.False(t, episodes[0].Summarized(), "failed episode keeps no summary")
	assert.True(t, episodes[1].Summarized())

	// The failed episode is retried on the next pass.
	summarizer.setFailing(ids[0], false)
	retry := compressor.Run(context.Background(), ledger)
	assert.Equal(t, 1, retry.Summarized)
	assert.True(t, ledger.Episodes()[0].Summarized())
}

func TestRunSkipsPendingEpisodes(t *testing.T) {
	ledger := history.NewLedger()
	// Five pending episodes: none may be summarized no matter how old.
	for i := 0; i < 5; i++ {
		ledger.RegisterAction(models.TextPayload(fmt.Sprintf("action %d", i+1)))
	}

	summarizer := &fakeSummarizer{}
	compressor := New(summarizer, 2, nil, nil)

	stats := compressor.Run(context.Background(), ledger)
	assert.Equal(t, 0, stats.Summarized)
	assert.Equal(t, 0, summarizer.calls)
}

func TestRunHonorsCancellation(t *testing.T) {
	ledger, _ := seedLedger(t, 8)
	summarizer := &fakeSummarizer{}
	compressor := New(summarizer, 4, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := compressor.Run(ctx, ledger)
	assert.Equal(t, 0, stats.Summarized)

	// Nothing was rolled back or half-written; a live context finishes the job.
	resumed := compressor.Run(context.Background(), ledger)
	assert.Equal(t, 4, resumed.Summarized)
}

func TestRunWindowOverride(t *testing.T) {
	ledger, _ := seedLedger(t, 6)
	compressor := New(&fakeSummarizer{}, 4, nil, nil)

	stats := compressor.RunWindow(context.Background(), ledger, 5)
	assert.Equal(t, 1, stats.Summarized)
}

func TestDefaultWindowMatchesDigest(t *testing.T) {
	ledger, _ := seedLedger(t, 6)
	compressor := New(&fakeSummarizer{}, 0, nil, nil)

	stats := compressor.Run(context.Background(), ledger)
	assert.Equal(t, 6-history.RecentFullSteps, stats.Summarized)
}
