// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/app"
	"github.com/your-org/storefront/internal/domain/catalog"
)

// respondError maps controller and catalog errors to HTTP responses
func respondError(c *gin.Context, controller *app.Controller, err error) {
	switch {
	case errors.Is(err, app.ErrNotReady):
		state, message := controller.State()
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": message,
			"state": state,
		})
	case errors.Is(err, app.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		body := gin.H{"error": err.Error()}
		var unavailable *catalog.UnavailableError
		if errors.As(err, &unavailable) && unavailable.StatusCode != 0 {
			body["upstream_status"] = unavailable.StatusCode
		}
		c.JSON(http.StatusBadGateway, body)
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "An unexpected error occurred",
		})
	}
}

// parseProductID reads the :id path parameter
func parseProductID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return 0, false
	}
	return id, true
}

// ensureReady writes 503 unless the storefront has loaded
func ensureReady(c *gin.Context, controller *app.Controller) bool {
	if state, _ := controller.State(); state != app.StateReady {
		respondError(c, controller, app.ErrNotReady)
		return false
	}
	return true
}
