package history

import (
	"fmt"
	"strings"
	"testing"

	"github.com/raphaelgruber/retrace-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeEpisodes builds n resolved episodes. summaries maps 1-based step
// numbers to summary text.
func makeEpisodes(n int, summaries map[int]string) []*models.Episode {
	episodes := make([]*models.Episode, n)
	for i := 0; i < n; i++ {
		episodes[i] = &models.Episode{
			ID:     fmt.Sprintf("ep-%d", i+1),
			Action: models.TextPayload(fmt.Sprintf("action %d", i+1)),
			Result: models.TextPayload(fmt.Sprintf("result %d", i+1)),
		}
		if s, ok := summaries[i+1]; ok {
			summary := s
			episodes[i].Summary = &summary
		}
	}
	return episodes
}

// stepCost is a fake counter: summary steps cost 5 tokens, full steps 30.
func stepCost(step string) int {
	if strings.Contains(step, "summary") {
		return 5
	}
	return 30
}

func TestCompileDigestUnbounded(t *testing.T) {
	episodes := makeEpisodes(6, map[int]string{1: "summary one", 2: "summary two"})

	digest, err := CompileDigest(episodes, 0, nil)
	require.NoError(t, err)

	// All 6 steps, chronological order.
	var positions []int
	for i := 1; i <= 6; i++ {
		pos := strings.Index(digest, fmt.Sprintf("* Step %d:", i))
		require.GreaterOrEqual(t, pos, 0, "step %d missing", i)
		positions = append(positions, pos)
	}
	for i := 1; i < len(positions); i++ {
		assert.Greater(t, positions[i], positions[i-1], "steps out of order")
	}

	// Steps 1-2 render as their summaries, 3-6 in full.
	assert.Contains(t, digest, "* Step 1: summary one")
	assert.Contains(t, digest, "* Step 2: summary two")
	for i := 3; i <= 6; i++ {
		assert.Contains(t, digest, fmt.Sprintf("action %d", i))
		assert.Contains(t, digest, fmt.Sprintf("result %d", i))
	}
	assert.NotContains(t, digest, "action 1")
	assert.NotContains(t, digest, "action 2")
}

func TestCompileDigestSummaryMissingRendersFull(t *testing.T) {
	// 6 episodes, only step 1 summarized: step 2 is older than the
	// recency window but must still render in full.
	episodes := makeEpisodes(6, map[int]string{1: "summary one"})

	digest, err := CompileDigest(episodes, 0, nil)
	require.NoError(t, err)

	assert.Contains(t, digest, "* Step 1: summary one")
	assert.Contains(t, digest, "action 2")
	assert.Contains(t, digest, "result 2")
}

func TestCompileDigestBudgetDropsOldest(t *testing.T) {
	// Each full step costs 30; with a budget of 100 the newest three fit
	// (90), the fourth would push to 120 and stops the scan.
	episodes := makeEpisodes(6, nil)

	digest, err := CompileDigest(episodes, 100, stepCost)
	require.NoError(t, err)

	for i := 4; i <= 6; i++ {
		assert.Contains(t, digest, fmt.Sprintf("* Step %d:", i))
	}
	for i := 1; i <= 3; i++ {
		assert.NotContains(t, digest, fmt.Sprintf("* Step %d:", i))
	}

	// Dropped steps are a contiguous oldest prefix; total stays in budget.
	total := 0
	for _, step := range strings.Split(digest, "\n\n") {
		if strings.HasPrefix(step, "* Step ") {
			total += stepCost(step)
		}
	}
	assert.LessOrEqual(t, total, 100)
}

func TestCompileDigestBudgetKeepsSummaries(t *testing.T) {
	// Summaries present for steps 1-2: 4 full steps at 30 plus 2
	// summaries at 5 is 130 tokens, all within a 1000 budget.
	episodes := makeEpisodes(6, map[int]string{1: "summary one", 2: "summary two"})

	digest, err := CompileDigest(episodes, 1000, stepCost)
	require.NoError(t, err)

	for i := 1; i <= 6; i++ {
		assert.Contains(t, digest, fmt.Sprintf("* Step %d:", i))
	}
	assert.Contains(t, digest, "summary one")
	assert.Contains(t, digest, "summary two")
}

func TestCompileDigestNothingFits(t *testing.T) {
	episodes := makeEpisodes(3, nil)

	digest, err := CompileDigest(episodes, 10, stepCost)
	require.NoError(t, err)
	assert.Empty(t, digest)
}

func TestCompileDigestBudgetWithoutCounter(t *testing.T) {
	episodes := makeEpisodes(2, nil)

	_, err := CompileDigest(episodes, 100, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCounterRequired)
}

func TestCompileDigestEmptyLedger(t *testing.T) {
	digest, err := CompileDigest(nil, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, digest)
}

func TestCompileDigestDeterministic(t *testing.T) {
	episodes := makeEpisodes(8, map[int]string{1: "summary one", 3: "summary three"})

	first, err := CompileDigest(episodes, 200, stepCost)
	require.NoError(t, err)
	second, err := CompileDigest(episodes, 200, stepCost)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompileDigestIndentsFullSteps(t *testing.T) {
	episodes := makeEpisodes(1, nil)

	digest, err := CompileDigest(episodes, 0, nil)
	require.NoError(t, err)

	// First line of the body sits on the label, continuation lines are
	// indented for visual nesting.
	assert.True(t, strings.HasPrefix(digest, "* Step 1: action 1"), digest)
	assert.Contains(t, digest, "\n  result 1")
}

func TestProgressMessage(t *testing.T) {
	episodes := makeEpisodes(2, nil)

	message, err := ProgressMessage(episodes, 0, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(message, "## Progress on your Task so far\n\n"))
	assert.Contains(t, message, "* Step 2:")

	empty, err := ProgressMessage(nil, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
