// internal/domain/catalog/entity.go
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a read-only catalog entry as served by the catalog service
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}

// Rating is the average review score and number of reviews
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// wireProduct mirrors Product with pointers so missing fields can be told apart from zero values
type wireProduct struct {
	ID          *int             `json:"id"`
	Title       *string          `json:"title"`
	Price       *decimal.Decimal `json:"price"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Image       string           `json:"image"`
	Rating      *Rating          `json:"rating"`
}

func (w wireProduct) toProduct() (Product, error) {
	switch {
	case w.ID == nil:
		return Product{}, fmt.Errorf("missing id")
	case *w.ID <= 0:
		return Product{}, fmt.Errorf("invalid id %d", *w.ID)
	case w.Title == nil || *w.Title == "":
		return Product{}, fmt.Errorf("product %d: missing title", *w.ID)
	case w.Price == nil:
		return Product{}, fmt.Errorf("product %d: missing price", *w.ID)
	case w.Price.IsNegative():
		return Product{}, fmt.Errorf("product %d: negative price %s", *w.ID, w.Price)
	}

	var rating Rating
	if w.Rating != nil {
		rating = *w.Rating
	}
	if rating.Rate < 0 || rating.Rate > 5 {
		return Product{}, fmt.Errorf("product %d: rating %.2f outside [0,5]", *w.ID, rating.Rate)
	}
	if rating.Count < 0 {
		return Product{}, fmt.Errorf("product %d: negative review count", *w.ID)
	}

	return Product{
		ID:          *w.ID,
		Title:       *w.Title,
		Price:       *w.Price,
		Description: w.Description,
		Category:    w.Category,
		Image:       w.Image,
		Rating:      rating,
	}, nil
}
