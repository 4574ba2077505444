package book

import (
	"container/list"

	"github.com/tidwall/btree"

	"smartbook/internal/common"
)

// L3PriceLevel is a single price level: the aggregate resting quantity
// and the FIFO of individual orders that make it up, in price-time
// priority order.
type L3PriceLevel struct {
	Price      common.Price
	TotalQty   common.Quantity
	OrderCount int
	Orders     *list.List // of *common.Order
}

func newL3PriceLevel(price common.Price) *L3PriceLevel {
	return &L3PriceLevel{Price: price, Orders: list.New()}
}

// orderHandle is the OrderIndex's direct handle into an order's owning
// level and its FIFO position. It stays valid across sibling
// insert/erase on the same level: container/list never invalidates
// other elements' pointers.
type orderHandle struct {
	level *L3PriceLevel
	elem  *list.Element
	side  common.Side
}

// L3Book is a per-order book: two ordered ladders of price levels, each
// backed by a price-time FIFO, with an O(1) order index.
type L3Book struct {
	// Name identifies this book in log lines — "SmartBook" for the
	// reconciled view, "L3Book" for the raw feed mirror.
	Name string

	bids  *btree.BTreeG[*L3PriceLevel]
	asks  *btree.BTreeG[*L3PriceLevel]
	index map[common.OrderID]*orderHandle
}

// New constructs an empty L3 book named name.
func New(name string) *L3Book {
	return &L3Book{
		Name: name,
		bids: btree.NewBTreeG(func(a, b *L3PriceLevel) bool {
			return a.Price.GreaterThan(b.Price)
		}),
		asks: btree.NewBTreeG(func(a, b *L3PriceLevel) bool {
			return a.Price.LessThan(b.Price)
		}),
		index: make(map[common.OrderID]*orderHandle),
	}
}

func (b *L3Book) ladder(side common.Side) *btree.BTreeG[*L3PriceLevel] {
	if side == common.Sell {
		return b.asks
	}
	return b.bids
}

// AddOrder appends a new order to the tail of its price level's FIFO,
// creating the level if absent. Fails if id already exists or price is
// not strictly positive (market orders are rejected).
func (b *L3Book) AddOrder(id common.OrderID, side common.Side, size common.Quantity, price common.Price) bool {
	if _, exists := b.index[id]; exists {
		return false
	}
	if price.Sign() <= 0 {
		return false
	}

	tree := b.ladder(side)
	level, ok := tree.Get(&L3PriceLevel{Price: price})
	if !ok {
		level = newL3PriceLevel(price)
		tree.Set(level)
	}

	order := &common.Order{OrderID: id, Side: side, Price: price, Size: size}
	elem := level.Orders.PushBack(order)
	level.TotalQty += size
	level.OrderCount++

	b.index[id] = &orderHandle{level: level, elem: elem, side: side}
	return true
}

// CancelOrder removes an order by id, dropping the owning level once its
// order count reaches zero.
func (b *L3Book) CancelOrder(id common.OrderID) bool {
	h, ok := b.index[id]
	if !ok {
		return false
	}
	order := h.elem.Value.(*common.Order)

	h.level.TotalQty -= order.Size
	h.level.OrderCount--
	h.level.Orders.Remove(h.elem)
	delete(b.index, id)

	if h.level.OrderCount == 0 {
		b.ladder(h.side).Delete(h.level)
	}
	return true
}

// ModifyOrder applies an amend-down in place (same price, smaller size,
// priority preserved) or a cancel+add at the new price/size (priority
// lost, order moves to the tail of its new level).
func (b *L3Book) ModifyOrder(id common.OrderID, newSize common.Quantity, newPrice common.Price) bool {
	h, ok := b.index[id]
	if !ok {
		return false
	}
	order := h.elem.Value.(*common.Order)

	if order.Price.Equal(newPrice) && newSize < order.Size {
		return b.modifyOrderSize(h, newSize)
	}

	side := order.Side
	b.CancelOrder(id)
	return b.AddOrder(id, side, newSize, newPrice)
}

// modifyOrderSize adjusts a resting order's size in place without
// touching its FIFO position. Fails if newSize is not strictly positive.
func (b *L3Book) modifyOrderSize(h *orderHandle, newSize common.Quantity) bool {
	if newSize <= 0 {
		return false
	}
	order := h.elem.Value.(*common.Order)
	delta := order.Size - newSize
	order.Size = newSize
	h.level.TotalQty -= delta
	return true
}

// ModifyOrderSize is the exported form, for a caller that already holds
// an *common.Order (e.g. from FindOrder) resting in this book.
func (b *L3Book) ModifyOrderSize(order *common.Order, newSize common.Quantity) bool {
	h, ok := b.index[order.OrderID]
	if !ok {
		return false
	}
	return b.modifyOrderSize(h, newSize)
}

// ModifyOrderID rewrites the id stored for an order and in the index,
// without touching price, size or FIFO position. Used to reconcile a
// synthetic guess with the real id that later arrives on the L3 feed.
func (b *L3Book) ModifyOrderID(oldID, newID common.OrderID) bool {
	h, ok := b.index[oldID]
	if !ok {
		return false
	}
	order := h.elem.Value.(*common.Order)
	order.OrderID = newID
	delete(b.index, oldID)
	b.index[newID] = h
	return true
}

// ExecuteOrder consumes qty of order: cancels it outright if fully
// filled, otherwise decrements its size and the level's aggregate.
func (b *L3Book) ExecuteOrder(order *common.Order, qty common.Quantity) bool {
	if qty <= 0 {
		return false
	}
	if qty == order.Size {
		return b.CancelOrder(order.OrderID)
	}

	h, ok := b.index[order.OrderID]
	if !ok {
		return false
	}
	order.Size -= qty
	h.level.TotalQty -= qty
	return true
}

// ExecuteAtPrice consumes qty across the FIFO at price in time priority,
// emitting one EXECUTION OrderInfo per touched order. price is expected
// to be the current best bid or best ask; the level is located by
// presence on either ladder rather than strict top-of-book equality, so
// a guessed reduction deeper in the book still resolves. If price exists
// on both ladders at once (a crossed book), asks are preferred.
func (b *L3Book) ExecuteAtPrice(price common.Price, qty common.Quantity, isGuess bool) []common.OrderInfo {
	askLevel, onAsks := b.asks.Get(&L3PriceLevel{Price: price})
	bidLevel, onBids := b.bids.Get(&L3PriceLevel{Price: price})

	var level *L3PriceLevel
	switch {
	case onAsks:
		level = askLevel
	case onBids:
		level = bidLevel
	default:
		return nil
	}

	var executions []common.OrderInfo
	remaining := qty
	for elem := level.Orders.Front(); elem != nil && remaining > 0; {
		next := elem.Next()
		order := elem.Value.(*common.Order)
		execQty := min(remaining, order.Size)

		info := common.OrderInfo{
			OrderID:     order.OrderID,
			Side:        order.Side,
			Price:       price,
			Size:        execQty,
			Action:      common.ActionExecution,
			OriginalQty: order.Size,
		}
		if isGuess {
			info.IsGuess = true
			info.IsPending = true
		}
		executions = append(executions, info)

		b.ExecuteOrder(order, execQty)
		remaining -= execQty
		elem = next
	}
	return executions
}

// LevelAt returns the resting level for side at price, if any. Used by
// the engine to inspect, on a given side, a price level the L2 feed names.
func (b *L3Book) LevelAt(side common.Side, price common.Price) (*L3PriceLevel, bool) {
	return b.ladder(side).Get(&L3PriceLevel{Price: price})
}

// HasOrder reports whether id currently rests in this book.
func (b *L3Book) HasOrder(id common.OrderID) bool {
	_, ok := b.index[id]
	return ok
}

// FindOrder returns the order for id, if resting.
func (b *L3Book) FindOrder(id common.OrderID) (*common.Order, bool) {
	h, ok := b.index[id]
	if !ok {
		return nil, false
	}
	return h.elem.Value.(*common.Order), true
}

// BestBid returns the highest bid price, or the zero Price if none.
func (b *L3Book) BestBid() common.Price {
	if lvl, ok := b.bids.Min(); ok {
		return lvl.Price
	}
	return common.Price{}
}

// BestAsk returns the lowest ask price, or the zero Price if none.
func (b *L3Book) BestAsk() common.Price {
	if lvl, ok := b.asks.Min(); ok {
		return lvl.Price
	}
	return common.Price{}
}

// IsOrderBookCrossed is advisory only — a crossed book is tolerated, not
// repaired.
func (b *L3Book) IsOrderBookCrossed() bool {
	bestBid, okBid := b.bids.Min()
	bestAsk, okAsk := b.asks.Min()
	if !okBid || !okAsk {
		return false
	}
	return bestBid.Price.GreaterThanOrEqual(bestAsk.Price)
}

// Empty reports whether both sides are empty.
func (b *L3Book) Empty() bool {
	return b.bids.Len() == 0 && b.asks.Len() == 0
}

// TotalOrders returns the number of resting orders across both sides.
func (b *L3Book) TotalOrders() int {
	return len(b.index)
}

// Clear drops every level and resets the order index.
func (b *L3Book) Clear() {
	b.bids.Clear()
	b.asks.Clear()
	b.index = make(map[common.OrderID]*orderHandle)
}

// Bids iterates bid levels best-first.
func (b *L3Book) Bids(fn func(lvl *L3PriceLevel) bool) {
	b.bids.Scan(fn)
}

// Asks iterates ask levels best-first.
func (b *L3Book) Asks(fn func(lvl *L3PriceLevel) bool) {
	b.asks.Scan(fn)
}

// TopBids returns up to n best bid levels.
func (b *L3Book) TopBids(n int) []*L3PriceLevel {
	return topLevels(b.bids, n)
}

// TopAsks returns up to n best ask levels.
func (b *L3Book) TopAsks(n int) []*L3PriceLevel {
	return topLevels(b.asks, n)
}

func topLevels(tree *btree.BTreeG[*L3PriceLevel], n int) []*L3PriceLevel {
	res := make([]*L3PriceLevel, 0, n)
	tree.Scan(func(lvl *L3PriceLevel) bool {
		if len(res) >= n {
			return false
		}
		res = append(res, lvl)
		return true
	})
	return res
}
