package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cryptoclub/cryptoclub-backend-go/handlers"
)

// SetupRoutes registers the storefront and admin API.
func SetupRoutes(e *echo.Echo, h *handlers.Handler) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	// Catalog
	api.GET("/products", h.GetProducts)
	api.GET("/products/:id", h.GetProduct)

	// Cart (session-keyed via X-Session-ID)
	api.GET("/cart", h.GetCart)
	api.POST("/cart/items", h.AddCartItem)
	api.PUT("/cart/items", h.UpdateCartItem)
	api.DELETE("/cart/items", h.RemoveCartItem)
	api.DELETE("/cart", h.ClearCart)

	// Checkout
	api.GET("/shipping-methods", h.GetShippingMethods)
	api.POST("/checkout", h.SubmitCheckout)
	api.POST("/stripe/create-checkout-session", h.CreateCheckoutSession)

	// Analytics
	api.POST("/pageviews", h.TrackPageView)

	// Admin (no authentication; the admin area ships without it)
	admin := api.Group("/admin")
	admin.POST("/products", h.CreateProduct)
	admin.PUT("/products/:id", h.UpdateProduct)
	admin.DELETE("/products/:id", h.DeleteProduct)
	admin.GET("/orders", h.ListOrders)
	admin.GET("/orders/:id", h.GetOrder)
	admin.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	admin.GET("/shipping-methods", h.ListShippingMethods)
	admin.POST("/shipping-methods", h.CreateShippingMethod)
	admin.PUT("/shipping-methods/:id", h.UpdateShippingMethod)
	admin.DELETE("/shipping-methods/:id", h.DeleteShippingMethod)
	admin.POST("/upload", h.UploadFile)
	admin.GET("/stats", h.GetStats)
}
