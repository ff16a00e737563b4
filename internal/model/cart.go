package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quantity bounds for a single cart line.
const (
	MinLineQuantity = 1
	MaxLineQuantity = 1000
)

// LineItem is one product/quantity pair inside a cart. Name and price are
// denormalized snapshots taken when the item was first added, so a later
// product edit does not change what the customer is charged.
type LineItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns UnitPrice * Quantity as an exact decimal.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart holds the working set of to-be-purchased items for one checkout
// session. It lives purely in memory and is never persisted. Invariant:
// at most one line item per barcode.
type Cart struct {
	items []LineItem
}

func NewCart() *Cart {
	return &Cart{}
}

// AddOrIncrement merges the product into the cart. If a line with the same
// barcode already exists its quantity grows by qty, clamped to
// [MinLineQuantity, MaxLineQuantity]; otherwise a new line is appended with
// the product's current price frozen as a snapshot. It cannot fail.
func (c *Cart) AddOrIncrement(p *Product, qty int) {
	for i := range c.items {
		if c.items[i].Barcode == p.Barcode {
			c.items[i].Quantity = clampQuantity(c.items[i].Quantity + qty)
			return
		}
	}
	c.items = append(c.items, LineItem{
		ProductID: p.ID,
		Barcode:   p.Barcode,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  clampQuantity(qty),
	})
}

// Remove deletes the line item with the given barcode. No-op if absent.
func (c *Cart) Remove(barcode string) {
	for i := range c.items {
		if c.items[i].Barcode == barcode {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// AdjustQuantity moves the line's quantity by delta, clamped to
// [MinLineQuantity, MaxLineQuantity]. Quantity can never drop below one
// through this operation; use Remove to delete a line. No-op if absent.
func (c *Cart) AdjustQuantity(barcode string, delta int) {
	for i := range c.items {
		if c.items[i].Barcode == barcode {
			c.items[i].Quantity = clampQuantity(c.items[i].Quantity + delta)
			return
		}
	}
}

// Total returns the exact decimal sum of all line subtotals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, li := range c.items {
		total = total.Add(li.Subtotal())
	}
	return total
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Clear empties the cart. Called after a successful checkout.
func (c *Cart) Clear() {
	c.items = nil
}

func clampQuantity(q int) int {
	if q < MinLineQuantity {
		return MinLineQuantity
	}
	if q > MaxLineQuantity {
		return MaxLineQuantity
	}
	return q
}
