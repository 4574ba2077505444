package engine

import (
	"smartbook/internal/book"
	"smartbook/internal/common"
)

// ProcessL3Update applies a single per-order event from the L3 feed: the
// raw mirror always takes the event verbatim; SmartBook takes it only if
// reconciliation against an outstanding guess doesn't already account
// for it.
func (e *Engine) ProcessL3Update(action common.Action, orderID common.OrderID, side common.Side, price common.Price, size common.Quantity, ts common.Timestamp) {
	switch action {
	case common.ActionAdd:
		e.rawL3.AddOrder(orderID, side, size, price)
		if !e.reconcileAdd(orderID, side, price, size) {
			e.smartBook.AddOrder(orderID, side, size, price)
			e.emitAdd(common.OrderInfo{OrderID: orderID, Side: side, Price: price, Size: size, Action: common.ActionAdd, Timestamp: ts, OriginalQty: size})
		}
	case common.ActionModify:
		e.rawL3.ModifyOrder(orderID, size, price)
		if !e.reconcileModify(orderID, price, size) {
			e.smartBook.ModifyOrder(orderID, size, price)
			e.emitModify(common.OrderInfo{OrderID: orderID, Side: side, Price: price, Size: size, Action: common.ActionModify, Timestamp: ts})
		}
	case common.ActionCancel:
		e.rawL3.CancelOrder(orderID)
		if !e.reconcileCancel(orderID) {
			e.smartBook.CancelOrder(orderID)
			e.emitCancel(common.OrderInfo{OrderID: orderID, Side: side, Price: price, Size: size, Action: common.ActionCancel, Timestamp: ts})
		}
	}
}

// ProcessTrade records a confirmed trade print and, unless the print is
// fully accounted for by an outstanding guess, applies it as a certain
// execution against SmartBook.
func (e *Engine) ProcessTrade(price common.Price, quantity common.Quantity, ts common.Timestamp) {
	e.tradeLog.Add(common.Trade{Price: price, Quantity: quantity, Timestamp: ts})

	if !e.reconcileTrade(price, quantity) {
		e.onExecution(price, quantity, ts, false)
	}
}

// ProcessL2Snapshot replaces the last aggregated snapshot and diffs both
// sides of the new snapshot against SmartBook's current view, guessing
// new levels, quantity increases, quantity reductions, and level removals
// as needed.
func (e *Engine) ProcessL2Snapshot(bids, asks []book.L2PriceLevel, ts common.Timestamp) {
	e.l2Book.Clear()
	for _, lvl := range bids {
		e.l2Book.AddBidLevel(lvl.Price, lvl.Quantity)
	}
	for _, lvl := range asks {
		e.l2Book.AddAskLevel(lvl.Price, lvl.Quantity)
	}
	e.l2Book.SetLastUpdateTime(ts)

	e.handleL2SideChange(common.Buy, ts)
	e.handleL2SideChange(common.Sell, ts)
}

// handleL2SideChange diffs one side of the just-applied L2 snapshot
// against SmartBook's aggregate view on that side, level by level, then
// sweeps for SmartBook levels the snapshot no longer names at all.
func (e *Engine) handleL2SideChange(side common.Side, ts common.Timestamp) {
	seen := make(map[string]struct{})

	walk := func(price common.Price, qty common.Quantity) bool {
		seen[price.String()] = struct{}{}

		smartLevel, ok := e.smartBook.LevelAt(side, price)
		switch {
		case !ok:
			e.guessNewOrder(price, qty, side, false, ts, false)
		case qty > smartLevel.TotalQty:
			e.guessNewOrder(price, qty-smartLevel.TotalQty, side, false, ts, true)
		case qty < smartLevel.TotalQty:
			e.guessOrderReduction(price, smartLevel.TotalQty-qty, side, ts)
		}
		return true
	}

	if side == common.Sell {
		e.l2Book.Asks(func(l *book.L2PriceLevel) bool { return walk(l.Price, l.Quantity) })
	} else {
		e.l2Book.Bids(func(l *book.L2PriceLevel) bool { return walk(l.Price, l.Quantity) })
	}

	var stale []common.Price
	sweep := func(lvl *book.L3PriceLevel) bool {
		if _, ok := seen[lvl.Price.String()]; !ok {
			stale = append(stale, lvl.Price)
		}
		return true
	}
	if side == common.Sell {
		e.smartBook.Asks(sweep)
	} else {
		e.smartBook.Bids(sweep)
	}

	for _, price := range stale {
		lvl, ok := e.smartBook.LevelAt(side, price)
		if !ok {
			continue
		}
		e.guessOrderReduction(price, lvl.TotalQty, side, ts)
	}
}
