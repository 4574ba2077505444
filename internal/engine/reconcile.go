package engine

import "smartbook/internal/common"

// reconcileAdd checks whether an L3 ADD confirms a pending aggressor or
// an earlier guessed ADD. Returns true if the event was consumed by
// reconciliation — the caller must not also apply it to SmartBook.
func (e *Engine) reconcileAdd(orderID common.OrderID, side common.Side, price common.Price, size common.Quantity) bool {
	for i := range e.aggressors {
		a := &e.aggressors[i]
		if a.IsMarketable && a.Side == side && a.Price.Equal(price) && a.Size == size {
			a.IsPending = true
			a.OrderID = orderID
			confirmed := *a
			e.guesses[orderID] = &confirmed
			e.aggressors = append(e.aggressors[:i], e.aggressors[i+1:]...)
			return true
		}
	}

	for id, guess := range e.guesses {
		if guess.Action == common.ActionAdd && guess.Side == side && guess.Price.Equal(price) && guess.Size == size {
			if guess.OrderID.IsSynthetic() {
				e.smartBook.ModifyOrderID(guess.OrderID, orderID)
			}
			delete(e.guesses, id)
			return true
		}
	}
	return false
}

// reconcileModify checks whether an L3 MODIFY confirms a guessed
// execution already applied to orderID, or an earlier amend-up against a
// guessed ADD at price. Returns true if consumed.
func (e *Engine) reconcileModify(orderID common.OrderID, price common.Price, size common.Quantity) bool {
	if guess, ok := e.guesses[orderID]; ok {
		if guess.Action == common.ActionExecution && guess.Price.Equal(price) && guess.OriginalQty-guess.Size == size {
			guess.IsPending = false
			if !guess.IsGuess {
				delete(e.guesses, orderID)
			}
			return true
		}
		if guess.Action == common.ActionModify && guess.IsGuess {
			return true
		}
	}

	for id, guess := range e.guesses {
		if guess.Action != common.ActionAdd || !guess.Price.Equal(price) {
			continue
		}
		if guess.IsGuess && e.smartBook.HasOrder(orderID) {
			e.smartBook.CancelOrder(guess.OrderID)
			delete(e.guesses, id)
			return false
		}
		if guess.Size == size {
			if guess.OrderID.IsSynthetic() {
				e.smartBook.ModifyOrderID(guess.OrderID, orderID)
			}
			delete(e.guesses, id)
			return true
		}
	}
	return false
}

// reconcileCancel checks whether an L3 CANCEL confirms a fully filled
// guessed execution or a pending aggressor ADD. Returns true if consumed.
func (e *Engine) reconcileCancel(orderID common.OrderID) bool {
	guess, ok := e.guesses[orderID]
	if !ok {
		return false
	}
	if guess.Action == common.ActionExecution && guess.OriginalQty-guess.Size == 0 {
		guess.IsPending = false
		if !guess.IsGuess {
			delete(e.guesses, orderID)
		}
		return true
	}
	if guess.Action == common.ActionAdd && guess.IsPending {
		delete(e.guesses, orderID)
		return true
	}
	return false
}

// reconcileTrade reconciles a confirmed trade print against pending
// guessed executions, in two passes: first draining the FIFO of
// previously guessed executions (confirming or invalidating each in
// turn), then checking whether this print itself confirms an
// outstanding MODIFY/CANCEL guess as the execution that caused it.
// Returns true if the print was consumed by reconciliation.
func (e *Engine) reconcileTrade(price common.Price, quantity common.Quantity) bool {
	for len(e.guessedExecutions) > 0 {
		id := e.guessedExecutions[0]
		e.guessedExecutions = e.guessedExecutions[1:]

		exec, ok := e.guesses[id]
		if !ok {
			continue
		}

		if exec.Price.Equal(price) && exec.Size == quantity {
			if exec.Action == common.ActionExecution && exec.Price.Equal(price) && exec.Size == quantity {
				exec.IsGuess = false
				if !exec.IsPending {
					delete(e.guesses, id)
				}
			}
			return true
		}

		if exec.Action == common.ActionExecution && exec.IsGuess {
			exec.IsGuess = false
			if exec.OriginalQty == exec.Size {
				exec.Action = common.ActionCancel
				e.emitCancel(*exec)
			} else {
				exec.Action = common.ActionModify
				exec.Size = exec.OriginalQty - exec.Size
				e.emitModify(*exec)
			}
			delete(e.guesses, id)
		}
	}

	for id, guess := range e.guesses {
		matches := (guess.Action == common.ActionModify && quantity == guess.OriginalQty-guess.Size) ||
			(guess.Action == common.ActionCancel && quantity == guess.Size)
		if matches && guess.IsGuess && guess.Price.Equal(price) {
			guess.IsGuess = false
			guess.Size = quantity
			guess.Action = common.ActionExecution
			e.emitExecution(*guess)
			delete(e.guesses, id)
			return true
		}
	}
	return false
}
