package common

import "fmt"

// Trade is a public execution print: price and quantity only. The
// aggressor side is never disclosed by the feed.
type Trade struct {
	Price     Price
	Quantity  Quantity
	Timestamp Timestamp
}

func (t Trade) String() string {
	return fmt.Sprintf("TRADE %d @ %s [t=%d]", t.Quantity, t.Price, t.Timestamp)
}
