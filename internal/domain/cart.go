package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// CartLine is an item plus how many of it are in the cart. It serialises
// flat, the item fields next to "quantity".
type CartLine struct {
	Item
	Quantity int `json:"quantity"`
}

// Cart keeps at most one line per item id, in insertion order.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Add increments the line for item.ID or appends a new line of quantity 1.
func (c *Cart) Add(item Item) {
	if i := c.index(item.ID); i >= 0 {
		c.Lines[i].Quantity++
		return
	}
	c.Lines = append(c.Lines, CartLine{Item: item.Clone(), Quantity: 1})
}

// UpdateQuantity shifts the line's quantity by delta, never below 1.
// It reports whether a line with that id exists.
func (c *Cart) UpdateQuantity(id int64, delta int) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.Lines[i].Quantity = max(1, addSaturating(c.Lines[i].Quantity, delta))
	return true
}

// Remove deletes the line for id and reports whether one existed.
func (c *Cart) Remove(id int64) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

// Total is sum(price * quantity).
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) Len() int {
	return len(c.Lines)
}

// Snapshot returns a copy of the lines safe to hand out.
func (c *Cart) Snapshot() []CartLine {
	out := make([]CartLine, len(c.Lines))
	for i, l := range c.Lines {
		out[i] = CartLine{Item: l.Item.Clone(), Quantity: l.Quantity}
	}
	return out
}

func (c *Cart) index(id int64) int {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			return i
		}
	}
	return -1
}

// RestoreCart rebuilds a cart from persisted lines. Lines with a
// non-positive quantity are raised to 1 and repeated ids are merged, so a
// hand-edited snapshot still satisfies the cart's invariants.
func RestoreCart(lines []CartLine) Cart {
	var c Cart
	for _, l := range lines {
		q := max(1, l.Quantity)
		if i := c.index(l.ID); i >= 0 {
			c.Lines[i].Quantity += q
			continue
		}
		c.Lines = append(c.Lines, CartLine{Item: l.Item.Clone(), Quantity: q})
	}
	return c
}

func addSaturating(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}
