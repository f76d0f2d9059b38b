// Package token provides model-aware token counting for digest budgeting.
package token

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts text in model tokens using a tiktoken encoding.
// The digest compiler consumes only a plain counting function; Counter
// exists to supply one bound to a concrete model's vocabulary.
type Counter struct {
	encoding *tiktoken.Tiktoken
	model    string
}

var (
	// Cache encodings to avoid repeated BPE initialization.
	encodingCache = make(map[string]*tiktoken.Tiktoken)
	cacheMu       sync.Mutex
)

// NewCounter creates a counter for the given model name. Unknown models
// fall back to the cl100k_base encoding.
func NewCounter(model string) (*Counter, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	encoding, ok := encodingCache[model]
	if !ok {
		var err error
		encoding, err = tiktoken.EncodingForModel(model)
		if err != nil {
			encoding, err = tiktoken.GetEncoding("cl100k_base")
			if err != nil {
				return nil, fmt.Errorf("get encoding: %w", err)
			}
		}
		encodingCache[model] = encoding
	}

	return &Counter{
		encoding: encoding,
		model:    model,
	}, nil
}

// Count returns the token count for text under the counter's encoding.
func (c *Counter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// Model returns the model name this counter is configured for.
func (c *Counter) Model() string {
	return c.model
}

// Estimate is a rough ~4 chars/token heuristic for when no encoding is
// available (offline use). Not billing-accurate.
func Estimate(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}
