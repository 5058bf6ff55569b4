// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/app"
	"github.com/your-org/storefront/internal/domain/cart"
)

// SummaryRenderer renders the cart as a printable document
type SummaryRenderer interface {
	GenerateCartSummary(items []cart.LineItem, totals cart.Totals) (*bytes.Buffer, error)
}

// CartHandler handles cart endpoints
type CartHandler struct {
	controller *app.Controller
	summaries  SummaryRenderer
	log        logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(controller *app.Controller, summaries SummaryRenderer, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		controller: controller,
		summaries:  summaries,
		log:        log,
	}
}

// AddToCartRequest is the body of POST /cart/items
type AddToCartRequest struct {
	ProductID int `json:"product_id" binding:"required,min=1"`
}

// UpdateCartItemRequest is the body of PUT /cart/items/:id. Zero or a
// negative quantity removes the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartItemResponse is one line as shown on the cart page
type CartItemResponse struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

// CartResponse is the cart page payload
type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	Totals     cart.Totals        `json:"totals"`
	IsEmpty    bool               `json:"is_empty"`
	MemoryOnly bool               `json:"memory_only"`
}

func (h *CartHandler) cartResponse(items []cart.LineItem, totals cart.Totals) CartResponse {
	resp := CartResponse{
		Items:      make([]CartItemResponse, len(items)),
		Totals:     totals,
		IsEmpty:    len(items) == 0,
		MemoryOnly: h.controller.MemoryOnly(),
	}
	for i, item := range items {
		resp.Items[i] = CartItemResponse{
			ID:       item.ID,
			Title:    item.Title,
			Price:    item.Price.StringFixed(2),
			Image:    item.Image,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal().StringFixed(2),
		}
	}
	return resp
}

func (h *CartHandler) respondCart(c *gin.Context, message string) {
	items, totals := h.controller.Cart()
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    h.cartResponse(items, totals),
	})
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	if !ensureReady(c, h.controller) {
		return
	}
	h.respondCart(c, "Cart retrieved successfully")
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if _, err := h.controller.AddToCart(c.Request.Context(), req.ProductID); err != nil {
		respondError(c, h.controller, err)
		return
	}

	h.respondCart(c, "Item added to cart successfully")
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if _, err := h.controller.UpdateQuantity(c.Request.Context(), id, *req.Quantity); err != nil {
		respondError(c, h.controller, err)
		return
	}

	h.respondCart(c, "Cart item updated successfully")
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	if _, err := h.controller.RemoveFromCart(c.Request.Context(), id); err != nil {
		respondError(c, h.controller, err)
		return
	}

	h.respondCart(c, "Item removed from cart successfully")
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.controller.ClearCart(c.Request.Context()); err != nil {
		respondError(c, h.controller, err)
		return
	}

	h.respondCart(c, "Cart cleared successfully")
}

// DownloadSummary handles GET /cart/summary.pdf
func (h *CartHandler) DownloadSummary(c *gin.Context) {
	if !ensureReady(c, h.controller) {
		return
	}

	items, totals := h.controller.Cart()

	buf, err := h.summaries.GenerateCartSummary(items, totals)
	if err != nil {
		h.log.WithError(err).Error("Failed to generate cart summary")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate cart summary",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "cart-summary.pdf"))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
