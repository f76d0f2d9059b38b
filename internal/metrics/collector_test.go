package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorTiming(t *testing.T) {
	c := NewCollector()

	c.RecordTiming(OpDigestCompile, 10*time.Millisecond)
	c.RecordTiming(OpDigestCompile, 30*time.Millisecond)

	snap := c.Snapshot()
	require.NotNil(t, snap.DigestCompile)
	assert.Equal(t, int64(2), snap.DigestCompile.Count)
	assert.Equal(t, int64(10), snap.DigestCompile.MinTimeMs)
	assert.Equal(t, int64(30), snap.DigestCompile.MaxTimeMs)
	assert.Equal(t, int64(40), snap.DigestCompile.TotalTimeMs)

	// Untouched operations stay nil in the snapshot.
	assert.Nil(t, snap.Summarize)
	assert.Nil(t, snap.CompressPass)
}

func TestCollectorLLMUsage(t *testing.T) {
	c := NewCollector()

	c.RecordLLMUsage(OpSummarize, 200*time.Millisecond, 120, 40)
	c.RecordLLMUsage(OpSummarize, 100*time.Millisecond, 80, 20)

	snap := c.Snapshot()
	require.NotNil(t, snap.Summarize)
	assert.Equal(t, int64(2), snap.Summarize.Count)
	require.NotNil(t, snap.Summarize.TotalInputTokens)
	assert.Equal(t, int64(200), *snap.Summarize.TotalInputTokens)
	require.NotNil(t, snap.Summarize.TotalOutputTokens)
	assert.Equal(t, int64(60), *snap.Summarize.TotalOutputTokens)
}
