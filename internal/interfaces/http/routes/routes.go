// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
)

// Handlers groups every handler mounted under /api/v1
type Handlers struct {
	App     *handlers.AppHandler
	Product *handlers.ProductHandler
	Cart    *handlers.CartHandler
}

// SetupAppRoutes sets up storefront state and navigation routes
func SetupAppRoutes(rg *gin.RouterGroup, h *handlers.AppHandler) {
	appRoutes := rg.Group("/app")
	{
		appRoutes.GET("", h.GetApp)
		appRoutes.POST("/reload", h.Reload)

		view := appRoutes.Group("/view")
		{
			view.POST("/cart", h.ShowCart)
			view.POST("/catalog", h.ShowCatalog)
			view.POST("/toggle", h.ToggleCart)
		}
	}

	rg.GET("/header", h.GetHeader)
}

// SetupProductRoutes sets up product related routes
func SetupProductRoutes(rg *gin.RouterGroup, h *handlers.ProductHandler) {
	products := rg.Group("/products")
	{
		products.GET("", h.GetProducts)
		products.GET("/:id", h.GetProduct)
		products.GET("/category/:category", h.GetProductsByCategory)
	}
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler) {
	cartRoutes := rg.Group("/cart")
	{
		cartRoutes.GET("", h.GetCart)
		cartRoutes.DELETE("", h.ClearCart)
		cartRoutes.GET("/summary.pdf", h.DownloadSummary)
		cartRoutes.POST("/items", h.AddToCart)
		cartRoutes.PUT("/items/:id", h.UpdateCartItem)
		cartRoutes.DELETE("/items/:id", h.RemoveFromCart)
	}
}

// SetupRoutes sets up all API routes
func SetupRoutes(rg *gin.RouterGroup, h Handlers) {
	SetupAppRoutes(rg, h.App)
	SetupProductRoutes(rg, h.Product)
	SetupCartRoutes(rg, h.Cart)
}
