// Package cart implements the session-scoped shopping cart. A cart has a
// single logical owner (one per authenticated session); only the Manager's
// ownership map is guarded against concurrent access.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a cart line, uniquely keyed by (Name, RestaurantID).
type Item struct {
	Name         string          `json:"name"`
	RestaurantID uuid.UUID       `json:"restaurant_id"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
}

// Cart aggregates line items for one session.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

func (c *Cart) find(name string, restaurantID uuid.UUID) int {
	for i := range c.items {
		if c.items[i].Name == name && c.items[i].RestaurantID == restaurantID {
			return i
		}
	}
	return -1
}

// Add merges the item into the cart: a line matching (name, restaurant)
// has its quantity incremented, otherwise a new line is appended. A zero or
// negative incoming quantity counts as one.
func (c *Cart) Add(item Item) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if i := c.find(item.Name, item.RestaurantID); i >= 0 {
		c.items[i].Quantity += item.Quantity
		return
	}
	c.items = append(c.items, item)
}

// SetQuantity mutates an existing line's quantity, clamped to >= 0. Quantity
// zero marks a line for removal without deleting it. Absent keys are a no-op;
// SetQuantity never creates lines.
func (c *Cart) SetQuantity(name string, restaurantID uuid.UUID, quantity int) {
	i := c.find(name, restaurantID)
	if i < 0 {
		return
	}
	if quantity < 0 {
		quantity = 0
	}
	c.items[i].Quantity = quantity
}

// Remove deletes the matching line if present.
func (c *Cart) Remove(name string, restaurantID uuid.UUID) {
	i := c.find(name, restaurantID)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Len returns the number of lines, including zero-quantity ones.
func (c *Cart) Len() int {
	return len(c.items)
}

// Total recomputes sum(price x quantity) over all lines on every call; it is
// never cached.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		if item.Quantity <= 0 {
			continue
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Snapshot returns a copy of the lines; the copy plus Total is the sole
// payload handed to order placement.
func (c *Cart) Snapshot() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}
