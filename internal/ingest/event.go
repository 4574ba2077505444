// Package ingest loads the three text feeds a SmartBook run consumes —
// L2 snapshots, L3 per-order updates and trade prints — merges them by
// timestamp, and dispatches them into an engine.Engine in order.
package ingest

import "smartbook/internal/common"

// Kind identifies which feed an Event came from.
type Kind int

const (
	KindL2Snapshot Kind = iota
	KindL3Update
	KindTrade
)

func (k Kind) String() string {
	switch k {
	case KindL2Snapshot:
		return "L2_SNAPSHOT"
	case KindL3Update:
		return "L3_UPDATE"
	case KindTrade:
		return "TRADE"
	default:
		return "UNKNOWN"
	}
}

// Event is one still-unparsed line from a feed file, tagged with its
// originating feed and timestamp so the loader can merge across files
// before any line is interpreted.
type Event struct {
	Kind      Kind
	Timestamp common.Timestamp
	Line      string
	Source    string
}
