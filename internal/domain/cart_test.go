package domain

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id int64, price string) Item {
	return Item{ID: id, Name: "item", Category: "Tops", Price: decimal.RequireFromString(price)}
}

func TestCart_AddMergesByID(t *testing.T) {
	var c Cart
	c.Add(item(5, "9.99"))
	c.Add(item(5, "9.99"))

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("19.98").Equal(c.Total()))
}

func TestCart_AddRepeatedIDsOneLineEach(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	counts := map[int64]int{}
	var order []int64
	var c Cart
	for range 200 {
		id := int64(rng.IntN(7) + 1)
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
		c.Add(item(id, "1.00"))
	}

	require.Len(t, c.Lines, len(counts))
	for i, l := range c.Lines {
		assert.Equal(t, order[i], l.ID, "lines keep first-add order")
		assert.Equal(t, counts[l.ID], l.Quantity)
	}
}

func TestCart_UpdateQuantityClampsAtOne(t *testing.T) {
	var c Cart
	c.Add(item(1, "10"))
	c.Add(item(1, "10"))

	for _, delta := range []int{-1, -5, -1_000_000, 0} {
		assert.True(t, c.UpdateQuantity(1, delta))
		assert.GreaterOrEqual(t, c.Lines[0].Quantity, 1)
	}
	assert.Equal(t, 1, c.Lines[0].Quantity)

	c.UpdateQuantity(1, 3)
	assert.Equal(t, 4, c.Lines[0].Quantity)
}

func TestCart_UpdateQuantityLargeDeltaSaturates(t *testing.T) {
	var c Cart
	c.Add(item(5, "10"))
	c.Add(item(5, "10"))

	assert.True(t, c.UpdateQuantity(5, math.MaxInt))
	assert.Equal(t, math.MaxInt, c.Lines[0].Quantity)

	assert.True(t, c.UpdateQuantity(5, math.MinInt))
	assert.Equal(t, 1, c.Lines[0].Quantity)
}

func TestCart_UpdateQuantityUnknownIsNoop(t *testing.T) {
	var c Cart
	c.Add(item(1, "10"))
	assert.False(t, c.UpdateQuantity(42, 1))
	assert.Equal(t, 1, c.Lines[0].Quantity)
}

func TestCart_Remove(t *testing.T) {
	var c Cart
	c.Add(item(1, "10"))
	c.Add(item(2, "20"))

	assert.True(t, c.Remove(1))
	assert.False(t, c.Remove(1))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, int64(2), c.Lines[0].ID)
}

func TestCart_TotalAndCount(t *testing.T) {
	var c Cart
	assert.True(t, c.Total().IsZero())

	c.Add(item(1, "189.99"))
	c.Add(item(2, "0.01"))
	c.UpdateQuantity(2, 2)

	assert.Equal(t, "190.02", c.Total().StringFixed(2))
	assert.Equal(t, 4, c.ItemCount())
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
	assert.True(t, c.Total().IsZero())
}

func TestCart_SnapshotIsDetached(t *testing.T) {
	var c Cart
	it := item(1, "10")
	it.Tags = []string{"summer"}
	c.Add(it)

	snap := c.Snapshot()
	snap[0].Quantity = 99
	snap[0].Tags[0] = "winter"

	assert.Equal(t, 1, c.Lines[0].Quantity)
	assert.Equal(t, "summer", c.Lines[0].Tags[0])
}

func TestCartLine_FlatJSON(t *testing.T) {
	raw, err := json.Marshal(CartLine{Item: item(3, "89.00"), Quantity: 2})
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(raw, &flat))
	assert.Equal(t, float64(3), flat["id"])
	assert.Equal(t, float64(2), flat["quantity"])
	assert.NotContains(t, flat, "Item")
}

func TestCartLine_AcceptsNumericPrice(t *testing.T) {
	var lines []CartLine
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1,"name":"Coat","price":189.99,"quantity":1}]`), &lines))
	assert.Equal(t, "189.99", lines[0].Price.String())
}

func TestRestoreCart_RepairsInvariants(t *testing.T) {
	c := RestoreCart([]CartLine{
		{Item: item(1, "10"), Quantity: 0},
		{Item: item(2, "5"), Quantity: 2},
		{Item: item(1, "10"), Quantity: 3},
	})

	require.Len(t, c.Lines, 2)
	assert.Equal(t, 4, c.Lines[0].Quantity)
	assert.Equal(t, 2, c.Lines[1].Quantity)
}
