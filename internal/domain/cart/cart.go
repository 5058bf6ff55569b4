// internal/domain/cart/cart.go
package cart

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront/internal/domain/catalog"
)

// Cart is the ordered list of line items, in first-add order.
// It holds at most one line per product id and every quantity is >= 1.
type Cart struct {
	items []LineItem
}

// NewCart builds a cart from previously stored lines, dropping lines that
// break the cart invariants and folding duplicate ids into the first line.
func NewCart(items []LineItem) (*Cart, int) {
	c := &Cart{items: make([]LineItem, 0, len(items))}
	dropped := 0

	for _, item := range items {
		if item.ID <= 0 || item.Quantity < 1 {
			dropped++
			continue
		}
		if i := c.indexOf(item.ID); i >= 0 {
			c.items[i].Quantity += item.Quantity
			dropped++
			continue
		}
		c.items = append(c.items, item)
	}

	return c, dropped
}

// Add merges the product into the cart: an existing line gains one unit,
// otherwise a new line with quantity 1 is appended.
func (c *Cart) Add(p catalog.Product) {
	if i := c.indexOf(p.ID); i >= 0 {
		c.items[i].Quantity++
		return
	}

	c.items = append(c.items, LineItem{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: 1,
	})
}

// UpdateQuantity sets the quantity of line id. Zero or less removes the line.
// Reports whether the cart changed.
func (c *Cart) UpdateQuantity(id, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(id)
	}

	i := c.indexOf(id)
	if i < 0 || c.items[i].Quantity == quantity {
		return false
	}
	c.items[i].Quantity = quantity
	return true
}

// Remove deletes line id. Reports whether the cart changed.
func (c *Cart) Remove(id int) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// Clear drops every line
func (c *Cart) Clear() {
	c.items = c.items[:0]
}

// Items returns a copy of the lines
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len is the number of distinct lines
func (c *Cart) Len() int {
	return len(c.items)
}

// TotalQuantity is the sum of all quantities
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// Totals derives the order summary from the current lines
func (c *Cart) Totals() Totals {
	subTotal := decimal.Zero
	for _, item := range c.items {
		subTotal = subTotal.Add(item.Subtotal())
	}

	return Totals{
		ItemCount:     len(c.items),
		TotalQuantity: c.TotalQuantity(),
		SubTotal:      subTotal,
		TaxAmount:     subTotal.Mul(TaxRate).Round(2),
		TotalAmount:   subTotal.Mul(decimal.NewFromInt(1).Add(TaxRate)).Round(2),
	}
}

func (c *Cart) indexOf(id int) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}
