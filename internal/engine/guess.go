package engine

import "smartbook/internal/common"

// guessNewOrder fabricates a synthetic order at price/size and applies it
// to SmartBook, unless it is marketable — a marketable guess only ever
// removes liquidity, so it is tracked as a pending aggressor instead of
// being added to the book. For a non-marketable order, isGuess marks the
// record provisional (set when the caller itself is uncertain, e.g. an
// L2-observed add); a marketable aggressor record always carries
// IsGuess set, whatever isGuess says.
func (e *Engine) guessNewOrder(price common.Price, size common.Quantity, side common.Side, isMarketable bool, ts common.Timestamp, isGuess bool) common.OrderInfo {
	id := e.allocSyntheticID()
	if !isMarketable {
		e.smartBook.AddOrder(id, side, size, price)
	}

	info := common.OrderInfo{
		OrderID:      id,
		Side:         side,
		Price:        price,
		Size:         size,
		Action:       common.ActionAdd,
		Timestamp:    ts,
		OriginalQty:  size,
		IsGuess:      true,
		IsMarketable: isMarketable,
	}

	if isMarketable {
		e.aggressors = append(e.aggressors, info)
	} else {
		info.IsGuess = isGuess
		e.guesses[id] = &info
	}

	e.emitAdd(info)
	return info
}

// guessOrderReduction walks a SmartBook level's FIFO, reducing quantity
// worth of resting size one order at a time. Each order touched draws an
// independent Bernoulli branch: guessed execution, or guessed
// cancel/modify. Does nothing if the level no longer exists.
func (e *Engine) guessOrderReduction(price common.Price, quantity common.Quantity, side common.Side, ts common.Timestamp) {
	level, ok := e.smartBook.LevelAt(side, price)
	if !ok {
		return
	}

	remaining := quantity
	for elem := level.Orders.Front(); elem != nil && remaining > 0; {
		next := elem.Next()
		order := elem.Value.(*common.Order)
		reduceQty := min(remaining, order.Size)

		if e.drawExecutionBranch() {
			e.onExecution(price, reduceQty, ts, true)
		} else if reduceQty == order.Size {
			info := common.OrderInfo{
				OrderID:     order.OrderID,
				Side:        order.Side,
				Price:       order.Price,
				Size:        reduceQty,
				Action:      common.ActionCancel,
				Timestamp:   ts,
				OriginalQty: order.Size,
				IsGuess:     true,
			}
			e.guesses[order.OrderID] = &info
			e.smartBook.CancelOrder(order.OrderID)
			e.emitCancel(info)
		} else {
			newSize := order.Size - reduceQty
			info := common.OrderInfo{
				OrderID:     order.OrderID,
				Side:        order.Side,
				Price:       order.Price,
				Size:        newSize,
				Action:      common.ActionModify,
				Timestamp:   ts,
				OriginalQty: order.Size,
				IsGuess:     true,
			}
			e.guesses[order.OrderID] = &info
			e.smartBook.ModifyOrder(order.OrderID, newSize, order.Price)
			e.emitModify(info)
		}

		remaining -= reduceQty
		elem = next
	}
}

// onExecution is the engine's certain-execution path: it always deduces
// and guesses an aggressor order consistent with price, then walks
// SmartBook's FIFO at price taking quantity in time priority. isGuess
// marks whether the trigger itself (an L2 reduction) was only inferred.
// Every order actually touched is recorded as an EXECUTION guess unless
// it already has a guess entry, which is then kept as it is; when
// isGuess is set, every touched order's id is queued for confirmation.
func (e *Engine) onExecution(price common.Price, quantity common.Quantity, ts common.Timestamp, isGuess bool) {
	_, isSellAggressor := e.deduceIsSellAggressor(price)
	e.guessNewOrder(price, quantity, sideFromIsSell(isSellAggressor), true, ts, false)

	executions := e.smartBook.ExecuteAtPrice(price, quantity, isGuess)
	for _, exec := range executions {
		exec.Timestamp = ts
		if _, exists := e.guesses[exec.OrderID]; !exists {
			e.guesses[exec.OrderID] = &exec
		}
		if isGuess {
			e.guessedExecutions = append(e.guessedExecutions, exec.OrderID)
		}
		e.emitExecution(exec)
	}
}

// deduceIsSellAggressor infers whether the incoming print at price is a
// sell hitting the bid or a buy lifting the ask, by comparing against
// SmartBook's current top of book. Returns (isMarketable, isSellAggressor);
// isMarketable is false only when price sits strictly inside the spread,
// which should not happen for a confirmed trade print but is tolerated.
func (e *Engine) deduceIsSellAggressor(price common.Price) (bool, bool) {
	if bid := e.smartBook.BestBid(); bid.Sign() != 0 && price.LessThanOrEqual(bid) {
		return true, true
	}
	if ask := e.smartBook.BestAsk(); ask.Sign() != 0 && price.GreaterThanOrEqual(ask) {
		return true, false
	}
	return false, false
}

func sideFromIsSell(isSell bool) common.Side {
	if isSell {
		return common.Sell
	}
	return common.Buy
}
