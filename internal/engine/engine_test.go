package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbook/internal/book"
	"smartbook/internal/common"
)

func p(v int64) common.Price { return decimal.NewFromInt(v) }

func TestEngine_SimpleAdd(t *testing.T) {
	eng := New(Config{})

	eng.ProcessL3Update(common.ActionAdd, 1, common.Buy, p(100), 200, 1)

	assert.True(t, p(100).Equal(eng.SmartBook().BestBid()))
	lvl, ok := eng.SmartBook().LevelAt(common.Buy, p(100))
	require.True(t, ok)
	assert.Equal(t, common.Quantity(200), lvl.TotalQty)
	assert.Equal(t, 1, lvl.OrderCount)
}

func TestEngine_TradeFullyConsumesTwoFIFOOrders(t *testing.T) {
	eng := New(Config{})

	eng.ProcessL3Update(common.ActionAdd, 1, common.Buy, p(100), 100, 1)
	eng.ProcessL3Update(common.ActionAdd, 2, common.Buy, p(100), 100, 2)
	eng.ProcessTrade(p(100), 200, 3)

	assert.True(t, eng.SmartBook().Empty())
	assert.Len(t, eng.Aggressors(), 1)
}

func TestEngine_TradeLeadsSellAggressor_L3Lags(t *testing.T) {
	eng := New(Config{})

	eng.ProcessL3Update(common.ActionAdd, 1, common.Buy, p(100), 100, 1)
	eng.ProcessL3Update(common.ActionAdd, 2, common.Buy, p(100), 100, 2)
	eng.ProcessTrade(p(100), 200, 3)

	eng.ProcessL3Update(common.ActionAdd, 3, common.Sell, p(100), 200, 4)
	eng.ProcessL3Update(common.ActionCancel, 3, common.Sell, p(100), 200, 5)
	eng.ProcessL3Update(common.ActionCancel, 1, common.Buy, p(100), 100, 6)
	eng.ProcessL3Update(common.ActionCancel, 2, common.Buy, p(100), 100, 7)

	assert.True(t, eng.SmartBook().Empty())
	assert.Empty(t, eng.Guesses())
}

func TestEngine_TradePartialFill(t *testing.T) {
	eng := New(Config{})

	eng.ProcessL3Update(common.ActionAdd, 1, common.Buy, p(100), 100, 1)
	eng.ProcessL3Update(common.ActionAdd, 2, common.Buy, p(100), 100, 2)
	eng.ProcessTrade(p(100), 160, 3)

	lvl, ok := eng.SmartBook().LevelAt(common.Buy, p(100))
	require.True(t, ok)
	assert.Equal(t, common.Quantity(40), lvl.TotalQty)
	assert.Equal(t, 1, lvl.OrderCount)
	assert.Len(t, eng.Guesses(), 2)
	assert.Len(t, eng.Aggressors(), 1)

	eng.ProcessL3Update(common.ActionAdd, 3, common.Sell, p(100), 160, 4)
	eng.ProcessL3Update(common.ActionCancel, 3, common.Sell, p(100), 160, 5)
	eng.ProcessL3Update(common.ActionCancel, 1, common.Buy, p(100), 100, 6)
	eng.ProcessL3Update(common.ActionModify, 2, common.Buy, p(100), 40, 7)

	assert.Empty(t, eng.Guesses())
	lvl, ok = eng.SmartBook().LevelAt(common.Buy, p(100))
	require.True(t, ok)
	assert.Equal(t, common.Quantity(40), lvl.TotalQty)
}

func TestEngine_L2LeadsExecutionProbabilityOne(t *testing.T) {
	eng := New(Config{ExecutionProbability: 1})

	eng.ProcessL3Update(common.ActionAdd, 1, common.Buy, p(100), 500, 1)
	eng.ProcessL3Update(common.ActionAdd, 2, common.Sell, p(101), 500, 2)

	eng.ProcessL2Snapshot(
		[]book.L2PriceLevel{{Price: p(100), Quantity: 300}},
		[]book.L2PriceLevel{{Price: p(101), Quantity: 500}},
		3,
	)

	guesses := eng.Guesses()
	require.Len(t, guesses, 1)
	g, ok := guesses[1]
	require.True(t, ok)
	assert.Equal(t, common.ActionExecution, g.Action)

	eng.ProcessL3Update(common.ActionModify, 1, common.Buy, p(100), 300, 4)
	eng.ProcessTrade(p(100), 200, 5)

	assert.Empty(t, eng.Guesses())
	lvl, ok := eng.SmartBook().LevelAt(common.Buy, p(100))
	require.True(t, ok)
	assert.Equal(t, common.Quantity(300), lvl.TotalQty)
}

func TestEngine_L2LeadsExecutionProbabilityZero_InvalidatedByTrade(t *testing.T) {
	eng := New(Config{ExecutionProbability: 0})

	eng.ProcessL3Update(common.ActionAdd, 1, common.Buy, p(100), 500, 1)
	eng.ProcessL3Update(common.ActionAdd, 2, common.Sell, p(101), 500, 2)

	eng.ProcessL2Snapshot(
		[]book.L2PriceLevel{{Price: p(100), Quantity: 300}},
		[]book.L2PriceLevel{{Price: p(101), Quantity: 500}},
		3,
	)

	guesses := eng.Guesses()
	require.Len(t, guesses, 1)
	g, ok := guesses[1]
	require.True(t, ok)
	assert.Equal(t, common.ActionModify, g.Action)

	eng.ProcessL3Update(common.ActionModify, 1, common.Buy, p(100), 300, 4)
	require.Len(t, eng.Guesses(), 1, "the L3 modify merely confirms, it doesn't clear the guess on its own")

	var executed common.OrderInfo
	eng.SetCallbacks(Callbacks{
		OnOrderExecution: func(info common.OrderInfo) { executed = info },
	})
	eng.ProcessTrade(p(100), 200, 5)

	assert.Empty(t, eng.Guesses())
	assert.Equal(t, common.ActionExecution, executed.Action)
}

func TestEngine_DrawExecutionBranch_ForcedAtEndpoints(t *testing.T) {
	zero := New(Config{ExecutionProbability: 0})
	assert.False(t, zero.drawExecutionBranch())

	one := New(Config{ExecutionProbability: 1})
	assert.True(t, one.drawExecutionBranch())
}
