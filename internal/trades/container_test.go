package trades

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbook/internal/common"
)

func TestContainer_AddAndAll(t *testing.T) {
	c := New(10)
	c.Add(common.Trade{Price: decimal.NewFromInt(100), Quantity: 10, Timestamp: 1})
	c.Add(common.Trade{Price: decimal.NewFromInt(101), Quantity: 20, Timestamp: 2})

	assert.Len(t, c.All(), 2)
	assert.False(t, c.Empty())
}

func TestContainer_GetTradesAfter(t *testing.T) {
	c := New(10)
	c.Add(common.Trade{Price: decimal.NewFromInt(100), Quantity: 10, Timestamp: 1})
	c.Add(common.Trade{Price: decimal.NewFromInt(101), Quantity: 20, Timestamp: 2})
	c.Add(common.Trade{Price: decimal.NewFromInt(102), Quantity: 30, Timestamp: 3})

	after := c.GetTradesAfter(1)
	require.Len(t, after, 2)
	assert.Equal(t, common.Timestamp(2), after[0].Timestamp)
	assert.Equal(t, common.Timestamp(3), after[1].Timestamp)
}

func TestContainer_GetLastTrade(t *testing.T) {
	c := New(10)
	_, ok := c.GetLastTrade()
	assert.False(t, ok)

	c.Add(common.Trade{Price: decimal.NewFromInt(100), Quantity: 10, Timestamp: 1})
	last, ok := c.GetLastTrade()
	require.True(t, ok)
	assert.Equal(t, common.Timestamp(1), last.Timestamp)
}

func TestContainer_OutgrowsReservedCapacity_DoesNotEvict(t *testing.T) {
	c := New(1)
	c.Add(common.Trade{Price: decimal.NewFromInt(100), Quantity: 10, Timestamp: 1})
	c.Add(common.Trade{Price: decimal.NewFromInt(101), Quantity: 20, Timestamp: 2})
	c.Add(common.Trade{Price: decimal.NewFromInt(102), Quantity: 30, Timestamp: 3})

	assert.Len(t, c.All(), 3, "capacity is a reservation hint, never an eviction bound")
}

func TestContainer_Clear(t *testing.T) {
	c := New(10)
	c.Add(common.Trade{Price: decimal.NewFromInt(100), Quantity: 10, Timestamp: 1})
	c.Clear()
	assert.True(t, c.Empty())
}
