package engine

import "smartbook/internal/common"

// Callbacks are the four hook slots the engine fires on every add,
// cancel, modify and execution — real or guessed. Consumers must treat
// an OrderInfo with IsGuess set as provisional: it may be followed by a
// compensating callback if the guess is later invalidated, and must not
// retain interior references into SmartBook across calls.
type Callbacks struct {
	OnOrderAdd       func(info common.OrderInfo)
	OnOrderCancel    func(info common.OrderInfo)
	OnOrderModify    func(info common.OrderInfo)
	OnOrderExecution func(info common.OrderInfo)
}

func (e *Engine) emitAdd(info common.OrderInfo) {
	e.logCallback(info)
	if e.callbacks.OnOrderAdd != nil {
		e.callbacks.OnOrderAdd(info)
	}
}

func (e *Engine) emitCancel(info common.OrderInfo) {
	e.logCallback(info)
	if e.callbacks.OnOrderCancel != nil {
		e.callbacks.OnOrderCancel(info)
	}
}

func (e *Engine) emitModify(info common.OrderInfo) {
	e.logCallback(info)
	if e.callbacks.OnOrderModify != nil {
		e.callbacks.OnOrderModify(info)
	}
}

func (e *Engine) emitExecution(info common.OrderInfo) {
	e.logCallback(info)
	if e.callbacks.OnOrderExecution != nil {
		e.callbacks.OnOrderExecution(info)
	}
}

func (e *Engine) logCallback(info common.OrderInfo) {
	e.logger.Debug().
		Str("action", info.Action.String()).
		Bool("guess", info.IsGuess).
		Int64("orderId", int64(info.OrderID)).
		Str("side", info.Side.String()).
		Str("price", info.Price.String()).
		Int64("size", int64(info.Size)).
		Uint64("ts", uint64(info.Timestamp)).
		Msg("callback")
}
