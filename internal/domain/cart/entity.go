// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"
)

// TaxRate is the flat sales tax applied to the subtotal
var TaxRate = decimal.New(10, -2)

// LineItem is one distinct product in the cart. Title, price and image are
// copied from the product when it is first added and never re-synced.
type LineItem struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price times quantity for this line
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Totals represents calculated cart totals. Tax and Total are rounded to cents.
type Totals struct {
	ItemCount     int             // Number of distinct lines
	TotalQuantity int             // Sum of all quantities
	SubTotal      decimal.Decimal // Sum of price x quantity
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal // SubTotal x (1 + TaxRate)
}

// MarshalJSON renders every amount with exactly two decimals
func (t Totals) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ItemCount     int    `json:"item_count"`
		TotalQuantity int    `json:"total_quantity"`
		SubTotal      string `json:"sub_total"`
		TaxAmount     string `json:"tax_amount"`
		TotalAmount   string `json:"total_amount"`
	}{
		ItemCount:     t.ItemCount,
		TotalQuantity: t.TotalQuantity,
		SubTotal:      t.SubTotal.StringFixed(2),
		TaxAmount:     t.TaxAmount.StringFixed(2),
		TotalAmount:   t.TotalAmount.StringFixed(2),
	})
}
