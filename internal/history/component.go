package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raphaelgruber/retrace-go/internal/models"
)

// Recorder is the driver-facing hook pair: the agent loop calls
// AfterAction once an action is decided and AfterResult once it has been
// executed. Plain interface, no plugin machinery.
type Recorder interface {
	AfterAction(action models.Formatter)
	AfterResult(ctx context.Context, result models.Formatter) error
}

// CompressionRequester triggers a background summarization pass over the
// ledger. Request must return without waiting for the pass to finish.
type CompressionRequester interface {
	Request(ctx context.Context, ledger *Ledger)
}

// Component wires a ledger to a driving agent loop. AfterResult stays
// synchronous and fast: compression is handed off to the requester, never
// awaited in the registration path.
type Component struct {
	ledger      *Ledger
	compressor  CompressionRequester
	maxTokens   int
	countTokens TokenCountFunc
	logger      *slog.Logger
}

// Compile-time check that Component implements Recorder.
var _ Recorder = (*Component)(nil)

// NewComponent creates a recorder over the given ledger. compressor may be
// nil (no summarization configured); countTokens may be nil only when
// maxTokens is zero.
func NewComponent(ledger *Ledger, compressor CompressionRequester, maxTokens int, countTokens TokenCountFunc, logger *slog.Logger) *Component {
	if logger == nil {
		logger = slog.Default()
	}
	return &Component{
		ledger:      ledger,
		compressor:  compressor,
		maxTokens:   maxTokens,
		countTokens: countTokens,
		logger:      logger,
	}
}

// AfterAction records the decided action as a new pending episode.
func (c *Component) AfterAction(action models.Formatter) {
	episode := c.ledger.RegisterAction(action)
	c.logger.Debug("action registered", "episode", episode.ID, "step", c.ledger.Len())
}

// AfterResult resolves the pending episode and requests a background
// compression pass.
func (c *Component) AfterResult(ctx context.Context, result models.Formatter) error {
	if err := c.ledger.RegisterResult(result); err != nil {
		return fmt.Errorf("register result: %w", err)
	}
	if c.compressor != nil {
		c.compressor.Request(ctx, c.ledger)
	}
	return nil
}

// Progress compiles the prompt-ready digest message under the configured
// budget.
func (c *Component) Progress() (string, error) {
	return ProgressMessage(c.ledger.Episodes(), c.maxTokens, c.countTokens)
}
