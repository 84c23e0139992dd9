package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cryptoclub/cryptoclub-backend-go/models"
)

// GetCart returns the session's cart, empty if none exists yet.
func (h *Handler) GetCart(c echo.Context) error {
	sessionCart, err := h.Cart.Get(c.Request().Context(), h.sessionID(c))
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to fetch cart")
	}
	return c.JSON(http.StatusOK, sessionCart)
}

// AddCartItem merges an item into the session cart.
func (h *Handler) AddCartItem(c echo.Context) error {
	var item models.CartItem
	if err := c.Bind(&item); err != nil {
		return badRequest(c, "Invalid request format")
	}
	if item.ProductID == "" {
		return badRequest(c, "Missing product_id")
	}
	if item.Price < 0 {
		return badRequest(c, "Item price must not be negative")
	}

	sessionCart, err := h.Cart.Add(c.Request().Context(), h.sessionID(c), item)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to update cart")
	}
	return c.JSON(http.StatusOK, sessionCart)
}

// UpdateCartItem sets the quantity of one cart line.
func (h *Handler) UpdateCartItem(c echo.Context) error {
	var req struct {
		ProductID string `json:"product_id"`
		Size      string `json:"size"`
		Quantity  int64  `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	if req.ProductID == "" {
		return badRequest(c, "Missing product_id")
	}

	sessionCart, err := h.Cart.SetQuantity(c.Request().Context(), h.sessionID(c), req.ProductID, req.Size, req.Quantity)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to update cart")
	}
	return c.JSON(http.StatusOK, sessionCart)
}

// RemoveCartItem drops one line, identified by product_id and size query
// params.
func (h *Handler) RemoveCartItem(c echo.Context) error {
	productID := c.QueryParam("product_id")
	if productID == "" {
		return badRequest(c, "Missing product_id")
	}

	sessionCart, err := h.Cart.Remove(c.Request().Context(), h.sessionID(c), productID, c.QueryParam("size"))
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to update cart")
	}
	return c.JSON(http.StatusOK, sessionCart)
}

// ClearCart empties the session cart.
func (h *Handler) ClearCart(c echo.Context) error {
	if err := h.Cart.Clear(c.Request().Context(), h.sessionID(c)); err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to clear cart")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
