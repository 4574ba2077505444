// Package trades holds the append-only trade print history the
// reconciliation engine consults when confirming or invalidating
// execution guesses.
package trades

import (
	"github.com/rs/zerolog/log"

	"smartbook/internal/common"
)

// Container is a bounded-reserve, append-only trade log. maxSize is a
// capacity reservation hint, not a hard eviction bound: trades are never
// dropped, matching the reference implementation's reserve()-then-append
// behaviour.
type Container struct {
	trades  []common.Trade
	maxSize int
	warned  bool
}

// New constructs a Container with capacity reserved for maxSize trades.
func New(maxSize int) *Container {
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &Container{
		trades:  make([]common.Trade, 0, maxSize),
		maxSize: maxSize,
	}
}

// Add appends a trade print.
func (c *Container) Add(t common.Trade) {
	c.trades = append(c.trades, t)
	if !c.warned && len(c.trades) > c.maxSize {
		c.warned = true
		log.Warn().
			Int("reserved", c.maxSize).
			Int("actual", len(c.trades)).
			Msg("trade container outgrew its reserved capacity")
	}
}

// All returns every trade recorded so far, oldest first.
func (c *Container) All() []common.Trade {
	return c.trades
}

// GetTradesAfter returns every trade with Timestamp strictly after ts.
func (c *Container) GetTradesAfter(ts common.Timestamp) []common.Trade {
	var out []common.Trade
	for _, t := range c.trades {
		if t.Timestamp > ts {
			out = append(out, t)
		}
	}
	return out
}

// GetLastTrade returns the most recently recorded trade, if any.
func (c *Container) GetLastTrade() (common.Trade, bool) {
	if len(c.trades) == 0 {
		return common.Trade{}, false
	}
	return c.trades[len(c.trades)-1], true
}

// Empty reports whether no trades have been recorded.
func (c *Container) Empty() bool {
	return len(c.trades) == 0
}

// Clear discards every recorded trade.
func (c *Container) Clear() {
	c.trades = c.trades[:0]
	c.warned = false
}
