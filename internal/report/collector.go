package report

import (
	"errors"
	"fmt"
	"sync"

	"github.com/L1nMay/cidrscan/internal/model"
)

// ErrDuplicateResult means a target was recorded twice. The scheduler admits
// each target once, so this is an internal bug, never an input problem.
var ErrDuplicateResult = errors.New("duplicate result")

// Collector accumulates outcomes from concurrent probes. It owns the report's
// mutable state until Finalize hands out a read-only copy.
type Collector struct {
	mu       sync.Mutex
	outcomes map[model.Target]model.Outcome
	closed   bool
}

func NewCollector() *Collector {
	return &Collector{outcomes: make(map[model.Target]model.Outcome)}
}

// Record stores the outcome for target. A second record for the same target
// keeps the first outcome and returns an error wrapping ErrDuplicateResult.
func (c *Collector) Record(target model.Target, outcome model.Outcome) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("record %s: collector already closed", target)
	}
	if prev, ok := c.outcomes[target]; ok {
		return fmt.Errorf("%w: %s already recorded as %s", ErrDuplicateResult, target, prev)
	}
	c.outcomes[target] = outcome
	return nil
}

// Close marks the scan as finished. Reports finalized afterwards are complete.
func (c *Collector) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.outcomes)
}

// Finalize returns a snapshot of everything recorded so far. Before Close the
// snapshot is marked incomplete.
func (c *Collector) Finalize() *Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]Entry, 0, len(c.outcomes))
	for t, o := range c.outcomes {
		entries = append(entries, Entry{Target: t, Outcome: o})
	}
	return newReport(entries, c.closed)
}
