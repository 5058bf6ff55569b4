// internal/interfaces/http/handlers/app.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/app"
)

// AppHandler exposes the storefront state and navigation
type AppHandler struct {
	controller *app.Controller
	storeName  string
}

// NewAppHandler creates a new app handler
func NewAppHandler(controller *app.Controller, storeName string) *AppHandler {
	return &AppHandler{
		controller: controller,
		storeName:  storeName,
	}
}

// GetApp handles GET /app. Loading and failed are valid pages, so the
// snapshot is always returned with 200.
func (h *AppHandler) GetApp(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Storefront state retrieved successfully",
		"data":    h.controller.Snapshot(),
	})
}

// Reload handles POST /app/reload
func (h *AppHandler) Reload(c *gin.Context) {
	// the fetch outlives a client that hangs up mid-reload
	ctx := context.WithoutCancel(c.Request.Context())

	message := "Storefront reloaded successfully"
	if err := h.controller.Reload(ctx); err != nil {
		message = "Storefront reload failed"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    h.controller.Snapshot(),
	})
}

// ShowCart handles POST /app/view/cart
func (h *AppHandler) ShowCart(c *gin.Context) {
	h.respondView(c, h.controller.ShowCart)
}

// ShowCatalog handles POST /app/view/catalog
func (h *AppHandler) ShowCatalog(c *gin.Context) {
	h.respondView(c, h.controller.ShowCatalog)
}

// ToggleCart handles POST /app/view/toggle
func (h *AppHandler) ToggleCart(c *gin.Context) {
	h.respondView(c, h.controller.ToggleCart)
}

func (h *AppHandler) respondView(c *gin.Context, change func() (app.View, error)) {
	view, err := change()
	if err != nil {
		respondError(c, h.controller, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "View updated successfully",
		"data": gin.H{
			"view": view,
		},
	})
}

// GetHeader handles GET /header
func (h *AppHandler) GetHeader(c *gin.Context) {
	if !ensureReady(c, h.controller) {
		return
	}

	snapshot := h.controller.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"message": "Header retrieved successfully",
		"data": gin.H{
			"store_name":    h.storeName,
			"cart_quantity": snapshot.CartQuantity,
			"view":          snapshot.View,
		},
	})
}
