// Package common holds the data types shared across the book, trades and
// engine packages: prices, sides, orders and the OrderInfo record the
// reconciliation engine uses to describe both confirmed and guessed
// mutations.
package common

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Price is a venue price. Equality is used as a btree comparator key, so
// callers must never tolerance-compare it — decimal.Decimal gives exact,
// canonical equality where a float64 would not.
type Price = decimal.Decimal

// Quantity is a non-negative resting or traded size.
type Quantity int64

// Timestamp is a monotonically non-decreasing ordering key, not a wall
// clock reading.
type Timestamp uint64

// OrderID identifies an order. Negative values are synthetic, minted by
// the engine for a guess; non-negative values come from the real L3 feed.
type OrderID int64

// IsSynthetic reports whether id was engine-generated rather than
// observed on the wire.
func (id OrderID) IsSynthetic() bool {
	return id < 0
}

// Side is which side of the book an order or print sits on.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "SELL"
	}
	return "BUY"
}

// ParseSide parses the BUY/SELL tokens used on the wire.
func ParseSide(tok string) (Side, error) {
	switch tok {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	default:
		return Buy, fmt.Errorf("common: invalid side %q", tok)
	}
}

// Action classifies an OrderInfo record.
type Action int

const (
	ActionAdd Action = iota
	ActionModify
	ActionCancel
	ActionExecution
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "ADD"
	case ActionModify:
		return "MODIFY"
	case ActionCancel:
		return "CANCEL"
	case ActionExecution:
		return "EXECUTION"
	default:
		return "UNKNOWN"
	}
}

// Order is a single resting order, as tracked inside an L3 price level.
type Order struct {
	OrderID   OrderID
	Side      Side
	Price     Price
	Size      Quantity
	Timestamp Timestamp
}

// OrderInfo is the engine's record of a mutation — real or guessed. It is
// what every callback hook receives, and what the guesses/aggressors
// collections store while a provisional mutation awaits confirmation.
type OrderInfo struct {
	OrderID      OrderID
	Side         Side
	Price        Price
	Size         Quantity
	Action       Action
	Timestamp    Timestamp
	OriginalQty  Quantity
	IsGuess      bool
	IsMarketable bool
	IsPending    bool
}

func (o OrderInfo) String() string {
	guess := ""
	if o.IsGuess {
		guess = " (guess)"
	}
	return fmt.Sprintf("%s%s: %d %s %d @ %s", o.Action, guess, o.OrderID, o.Side, o.Size, o.Price)
}
