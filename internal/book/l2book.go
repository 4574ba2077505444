package book

import (
	"github.com/tidwall/btree"

	"smartbook/internal/common"
)

// L2PriceLevel is a single aggregated price/quantity pair from a snapshot.
type L2PriceLevel struct {
	Price    common.Price
	Quantity common.Quantity
}

// L2Book holds the last received aggregated snapshot: two ordered
// ladders, bids descending and asks ascending, so Min always yields the
// best price on each side.
type L2Book struct {
	bids           *btree.BTreeG[*L2PriceLevel]
	asks           *btree.BTreeG[*L2PriceLevel]
	lastUpdateTime common.Timestamp
}

// NewL2Book constructs an empty snapshot book.
func NewL2Book() *L2Book {
	return &L2Book{
		bids: btree.NewBTreeG(func(a, b *L2PriceLevel) bool {
			return a.Price.GreaterThan(b.Price)
		}),
		asks: btree.NewBTreeG(func(a, b *L2PriceLevel) bool {
			return a.Price.LessThan(b.Price)
		}),
	}
}

// AddBidLevel inserts or overwrites a bid level.
func (b *L2Book) AddBidLevel(price common.Price, qty common.Quantity) {
	b.bids.Set(&L2PriceLevel{Price: price, Quantity: qty})
}

// AddAskLevel inserts or overwrites an ask level.
func (b *L2Book) AddAskLevel(price common.Price, qty common.Quantity) {
	b.asks.Set(&L2PriceLevel{Price: price, Quantity: qty})
}

// Clear empties both sides. Called before every snapshot apply.
func (b *L2Book) Clear() {
	b.bids.Clear()
	b.asks.Clear()
}

// SetLastUpdateTime records the timestamp of the snapshot just applied.
func (b *L2Book) SetLastUpdateTime(ts common.Timestamp) { b.lastUpdateTime = ts }

// LastUpdateTime returns the timestamp of the last applied snapshot.
func (b *L2Book) LastUpdateTime() common.Timestamp { return b.lastUpdateTime }

// BestBid returns the highest bid price, or the zero Price if none.
func (b *L2Book) BestBid() common.Price {
	if lvl, ok := b.bids.Min(); ok {
		return lvl.Price
	}
	return common.Price{}
}

// BestAsk returns the lowest ask price, or the zero Price if none.
func (b *L2Book) BestAsk() common.Price {
	if lvl, ok := b.asks.Min(); ok {
		return lvl.Price
	}
	return common.Price{}
}

// BidQuantityAtPrice returns the quantity at price, or -1 if absent.
func (b *L2Book) BidQuantityAtPrice(price common.Price) common.Quantity {
	if lvl, ok := b.bids.Get(&L2PriceLevel{Price: price}); ok {
		return lvl.Quantity
	}
	return -1
}

// AskQuantityAtPrice returns the quantity at price, or -1 if absent.
func (b *L2Book) AskQuantityAtPrice(price common.Price) common.Quantity {
	if lvl, ok := b.asks.Get(&L2PriceLevel{Price: price}); ok {
		return lvl.Quantity
	}
	return -1
}

// IsEmpty reports whether both sides are empty.
func (b *L2Book) IsEmpty() bool {
	return b.bids.Len() == 0 && b.asks.Len() == 0
}

// Bids iterates the bid ladder best-first, calling fn until it returns
// false or the ladder is exhausted.
func (b *L2Book) Bids(fn func(lvl *L2PriceLevel) bool) {
	b.bids.Scan(fn)
}

// Asks iterates the ask ladder best-first, calling fn until it returns
// false or the ladder is exhausted.
func (b *L2Book) Asks(fn func(lvl *L2PriceLevel) bool) {
	b.asks.Scan(fn)
}
