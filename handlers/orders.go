package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cryptoclub/cryptoclub-backend-go/models"
	"github.com/cryptoclub/cryptoclub-backend-go/store"
)

// ListOrders returns orders newest first for the admin dashboard.
func (h *Handler) ListOrders(c echo.Context) error {
	limit, err := parseLimit(c.QueryParam("limit"))
	if err != nil {
		return badRequest(c, "Invalid limit parameter")
	}

	docs, err := h.Orders.List(c.Request().Context(), c.QueryParam("order"), limit)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to fetch orders")
	}
	return c.JSON(http.StatusOK, docs)
}

// GetOrder resolves one order by id.
func (h *Handler) GetOrder(c echo.Context) error {
	docs, err := h.Orders.Filter(c.Request().Context(), store.Criteria{"id": c.Param("id")}, "", 0)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to fetch order")
	}
	if len(docs) == 0 {
		return errJSON(c, http.StatusNotFound, "Order not found")
	}
	return c.JSON(http.StatusOK, docs[0])
}

// UpdateOrderStatus is the only post-creation mutation an order supports.
// Totals are never recomputed.
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	if !req.Status.Valid() {
		return badRequest(c, "Unknown order status")
	}

	updated, err := h.Orders.Update(c.Request().Context(), c.Param("id"), store.Document{"status": string(req.Status)})
	if errors.Is(err, store.ErrNotFound) {
		return errJSON(c, http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to update order")
	}
	return c.JSON(http.StatusOK, updated)
}
