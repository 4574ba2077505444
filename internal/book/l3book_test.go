package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbook/internal/common"
)

func price(v int64) common.Price {
	return decimal.NewFromInt(v)
}

func TestL3Book_AddOrder_RejectsDuplicateAndNonPositivePrice(t *testing.T) {
	b := New("test")

	assert.True(t, b.AddOrder(1, common.Buy, 100, price(100)))
	assert.False(t, b.AddOrder(1, common.Buy, 50, price(101)), "duplicate id must be rejected")
	assert.False(t, b.AddOrder(2, common.Buy, 50, price(0)), "non-positive price must be rejected")
	assert.Equal(t, 1, b.TotalOrders())
}

func TestL3Book_AddOrder_AggregatesLevel(t *testing.T) {
	b := New("test")

	require.True(t, b.AddOrder(1, common.Buy, 100, price(100)))
	require.True(t, b.AddOrder(2, common.Buy, 50, price(100)))

	assert.True(t, price(100).Equal(b.BestBid()))

	lvl, ok := b.LevelAt(common.Buy, price(100))
	require.True(t, ok)
	assert.Equal(t, common.Quantity(150), lvl.TotalQty)
	assert.Equal(t, 2, lvl.OrderCount)
}

func TestL3Book_CancelOrder_DropsEmptyLevel(t *testing.T) {
	b := New("test")
	require.True(t, b.AddOrder(1, common.Sell, 100, price(100)))

	assert.True(t, b.CancelOrder(1))
	assert.False(t, b.CancelOrder(1), "cancelling twice must fail")
	assert.True(t, b.Empty())
	assert.Equal(t, common.Price{}, b.BestAsk())
}

func TestL3Book_ModifyOrder_AmendDownPreservesPriority(t *testing.T) {
	b := New("test")
	require.True(t, b.AddOrder(1, common.Buy, 100, price(100)))
	require.True(t, b.AddOrder(2, common.Buy, 100, price(100)))

	assert.True(t, b.ModifyOrder(1, 40, price(100)))

	lvl, ok := b.LevelAt(common.Buy, price(100))
	require.True(t, ok)
	require.Equal(t, 2, lvl.OrderCount)

	front := lvl.Orders.Front().Value.(*common.Order)
	assert.Equal(t, common.OrderID(1), front.OrderID, "order 1 must keep its FIFO position")
	assert.Equal(t, common.Quantity(40), front.Size)
	assert.Equal(t, common.Quantity(140), lvl.TotalQty)
}

func TestL3Book_ModifyOrder_AmendUpMovesToTail(t *testing.T) {
	b := New("test")
	require.True(t, b.AddOrder(1, common.Buy, 100, price(100)))
	require.True(t, b.AddOrder(2, common.Buy, 100, price(100)))

	assert.True(t, b.ModifyOrder(1, 200, price(100)))

	lvl, ok := b.LevelAt(common.Buy, price(100))
	require.True(t, ok)
	back := lvl.Orders.Back().Value.(*common.Order)
	assert.Equal(t, common.OrderID(1), back.OrderID, "amend-up moves the order to the tail")
}

func TestL3Book_AddCancelRoundTrip_RestoresBook(t *testing.T) {
	b := New("test")
	require.True(t, b.AddOrder(1, common.Buy, 100, price(100)))
	require.True(t, b.AddOrder(2, common.Buy, 50, price(99)))

	assert.True(t, b.CancelOrder(2))

	assert.True(t, price(100).Equal(b.BestBid()))
	assert.Equal(t, 1, b.TotalOrders())
	_, hasLevel := b.LevelAt(common.Buy, price(99))
	assert.False(t, hasLevel, "the cancelled level must be gone entirely")
}

func TestL3Book_ExecuteAtPrice_FIFOAcrossMultipleOrders(t *testing.T) {
	b := New("test")
	require.True(t, b.AddOrder(1, common.Buy, 100, price(100)))
	require.True(t, b.AddOrder(2, common.Buy, 100, price(100)))

	execs := b.ExecuteAtPrice(price(100), 150, false)
	require.Len(t, execs, 2)
	assert.Equal(t, common.OrderID(1), execs[0].OrderID)
	assert.Equal(t, common.Quantity(100), execs[0].Size)
	assert.Equal(t, common.OrderID(2), execs[1].OrderID)
	assert.Equal(t, common.Quantity(50), execs[1].Size)

	lvl, ok := b.LevelAt(common.Buy, price(100))
	require.True(t, ok)
	assert.Equal(t, common.Quantity(50), lvl.TotalQty)
}

func TestL3Book_ExecuteAtPrice_NotOnEitherLadder_ReturnsNil(t *testing.T) {
	b := New("test")
	require.True(t, b.AddOrder(1, common.Buy, 100, price(100)))

	assert.Nil(t, b.ExecuteAtPrice(price(50), 10, false))
}

func TestL3Book_ExecuteAtPrice_PrefersAsksWhenCrossed(t *testing.T) {
	b := New("test")
	require.True(t, b.AddOrder(1, common.Buy, 100, price(100)))
	require.True(t, b.AddOrder(2, common.Sell, 100, price(100)))

	execs := b.ExecuteAtPrice(price(100), 30, false)
	require.Len(t, execs, 1)
	assert.Equal(t, common.OrderID(2), execs[0].OrderID, "a crossed book must execute against the resting ask")
}

func TestL3Book_ModifyOrderID_PreservesFIFOAndLevel(t *testing.T) {
	b := New("test")
	require.True(t, b.AddOrder(-1, common.Buy, 100, price(100)))

	assert.True(t, b.ModifyOrderID(-1, 7))
	assert.True(t, b.HasOrder(7))
	assert.False(t, b.HasOrder(-1))

	order, ok := b.FindOrder(7)
	require.True(t, ok)
	assert.Equal(t, common.Quantity(100), order.Size)

	lvl, ok := b.LevelAt(common.Buy, price(100))
	require.True(t, ok)
	assert.Equal(t, common.Quantity(100), lvl.TotalQty)
	assert.Equal(t, 1, lvl.OrderCount)
	assert.Same(t, order, lvl.Orders.Front().Value.(*common.Order))
}

func TestL3Book_IsOrderBookCrossed(t *testing.T) {
	b := New("test")
	require.True(t, b.AddOrder(1, common.Buy, 100, price(101)))
	require.True(t, b.AddOrder(2, common.Sell, 100, price(100)))

	assert.True(t, b.IsOrderBookCrossed())
}
