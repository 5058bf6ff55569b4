// internal/interfaces/http/handlers/product.go
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/app"
	"github.com/your-org/storefront/internal/domain/catalog"
)

// ProductReader reads live product data from the catalog service
type ProductReader interface {
	FetchProduct(ctx context.Context, id int) (*catalog.Product, error)
	FetchByCategory(ctx context.Context, category string) ([]catalog.Product, error)
}

// ProductHandler handles product endpoints
type ProductHandler struct {
	controller *app.Controller
	reader     ProductReader
}

// NewProductHandler creates a new product handler
func NewProductHandler(controller *app.Controller, reader ProductReader) *ProductHandler {
	return &ProductHandler{
		controller: controller,
		reader:     reader,
	}
}

// GetProducts handles GET /products - the catalog grid fetched at startup
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.controller.Products()
	if err != nil {
		respondError(c, h.controller, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data": gin.H{
			"products": products,
			"count":    len(products),
		},
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	product, err := h.reader.FetchProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.controller, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    product,
	})
}

// GetProductsByCategory handles GET /products/category/:category
func (h *ProductHandler) GetProductsByCategory(c *gin.Context) {
	category := strings.TrimSpace(c.Param("category"))
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Category is required",
		})
		return
	}

	products, err := h.reader.FetchByCategory(c.Request.Context(), category)
	if err != nil {
		respondError(c, h.controller, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data": gin.H{
			"category": category,
			"products": products,
			"count":    len(products),
		},
	})
}
