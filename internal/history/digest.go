package history

import (
	"fmt"
	"strings"

	"github.com/raphaelgruber/retrace-go/internal/models"
)

// TokenCountFunc measures a rendered step in model tokens. The tokenizer
// is the caller's concern; the compiler only consumes the function.
type TokenCountFunc func(text string) int

const (
	// RecentFullSteps is how many of the most recent episodes are always
	// rendered in full, regardless of available summaries.
	RecentFullSteps = 4

	// stepIndent nests the body of a full-format step under its label.
	stepIndent = "  "

	// progressHeader prefixes the digest when exposed as a prompt message.
	progressHeader = "## Progress on your Task so far"
)

// CompileDigest renders episodes into a single chronological digest string
// under an optional token budget.
//
// Episodes are scanned newest to oldest. The RecentFullSteps most recent
// episodes, and any episode without a summary, render in full format;
// older summarized episodes render as their summary. Each step is labeled
// with its absolute step number (oldest = 1). With maxTokens > 0, the scan
// stops at the first step that would push the running total past the
// budget, dropping that step and everything older; steps are never
// truncated. An empty result is valid when not even the newest step fits.
//
// maxTokens <= 0 means unbounded. A positive budget without countTokens is
// a caller contract violation and fails with ErrCounterRequired before any
// rendering.
//
// Pure function of its inputs: safe to call concurrently and repeatedly
// with different budgets.
func CompileDigest(episodes []*models.Episode, maxTokens int, countTokens TokenCountFunc) (string, error) {
	if maxTokens > 0 && countTokens == nil {
		return "", fmt.Errorf("compile digest: %w", ErrCounterRequired)
	}

	n := len(episodes)
	steps := make([]string, 0, n)
	tokens := 0

	for i := 0; i < n; i++ {
		episode := episodes[n-1-i]

		// Full format for the latest steps, summary or full for older ones.
		var content string
		if i < RecentFullSteps || !episode.Summarized() {
			content = strings.TrimSpace(indent(episode.Format(), stepIndent))
		} else {
			content = *episode.Summary
		}

		step := fmt.Sprintf("* Step %d: %s", n-i, content)

		if maxTokens > 0 {
			cost := countTokens(step)
			if tokens+cost > maxTokens {
				break
			}
			tokens += cost
		}

		// Prepend so the kept steps stay in chronological order.
		steps = append([]string{step}, steps...)
	}

	return strings.Join(steps, "\n\n"), nil
}

// ProgressMessage compiles the digest and wraps it in the header the
// prompt-assembly layer expects. Returns an empty string when the digest
// itself is empty.
func ProgressMessage(episodes []*models.Episode, maxTokens int, countTokens TokenCountFunc) (string, error) {
	digest, err := CompileDigest(episodes, maxTokens, countTokens)
	if err != nil {
		return "", err
	}
	if digest == "" {
		return "", nil
	}
	return progressHeader + "\n\n" + digest, nil
}

// indent prefixes every line of s with prefix.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
