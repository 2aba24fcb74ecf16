// Package cart does the arithmetic behind the checkout: merging repeated
// lines and pricing the total.
package cart

import (
	"math"

	"github.com/doshakada/ordering-api/internal/models"
)

// Cart is an ordered list of lines keyed by menu item id. The zero value is
// an empty cart.
type Cart struct {
	lines []models.OrderItem
}

// Add puts qty more of item into the cart, merging with an existing line
func (c *Cart) Add(item models.MenuItem, qty int) {
	if qty <= 0 {
		return
	}
	for i := range c.lines {
		if c.lines[i].ID == item.ID {
			c.lines[i].Qty += qty
			return
		}
	}
	c.lines = append(c.lines, models.OrderItem{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Category: item.Category,
		Qty:      qty,
	})
}

// Qty returns how many of id are in the cart
func (c *Cart) Qty(id models.ItemID) int {
	for _, l := range c.lines {
		if l.ID == id {
			return l.Qty
		}
	}
	return 0
}

// Lines returns a copy of the cart lines in the order they were first added
func (c *Cart) Lines() []models.OrderItem {
	out := make([]models.OrderItem, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is the sum of price × qty, rounded to paise
func (c *Cart) Total() float64 {
	total := 0.0
	for _, l := range c.lines {
		total += l.Price * float64(l.Qty)
	}
	return Round(total)
}

// Round rounds an amount to two decimal places
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}
