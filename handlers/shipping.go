package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cryptoclub/cryptoclub-backend-go/models"
	"github.com/cryptoclub/cryptoclub-backend-go/store"
)

// GetShippingMethods returns the selectable methods for the checkout page,
// sorted by sort_order.
func (h *Handler) GetShippingMethods(c echo.Context) error {
	methods, err := h.Checkout.ActiveShippingMethods(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to fetch shipping methods")
	}
	return c.JSON(http.StatusOK, methods)
}

// ListShippingMethods returns every method, active or not, for the admin.
func (h *Handler) ListShippingMethods(c echo.Context) error {
	docs, err := h.ShippingMethods.List(c.Request().Context(), c.QueryParam("order"), 0)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to fetch shipping methods")
	}
	return c.JSON(http.StatusOK, docs)
}

// CreateShippingMethod validates and persists a new method.
func (h *Handler) CreateShippingMethod(c echo.Context) error {
	var method models.ShippingMethod
	if err := c.Bind(&method); err != nil {
		return badRequest(c, "Invalid request format")
	}
	if err := method.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	doc, err := store.ToDocument(&method)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to encode shipping method")
	}
	delete(doc, "id")

	created, err := h.ShippingMethods.Create(c.Request().Context(), doc)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to create shipping method")
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateShippingMethod applies a partial update.
func (h *Handler) UpdateShippingMethod(c echo.Context) error {
	patch := store.Document{}
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "Invalid request format")
	}
	delete(patch, "id")
	delete(patch, "created_date")
	if err := validateShippingPatch(patch); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.ShippingMethods.Update(c.Request().Context(), c.Param("id"), patch)
	if errors.Is(err, store.ErrNotFound) {
		return errJSON(c, http.StatusNotFound, "Shipping method not found")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to update shipping method")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteShippingMethod removes a method. Orders keep their embedded
// shipping snapshot, so deletion does not affect existing orders.
func (h *Handler) DeleteShippingMethod(c echo.Context) error {
	err := h.ShippingMethods.Delete(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return errJSON(c, http.StatusNotFound, "Shipping method not found")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Failed to delete shipping method")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func validateShippingPatch(patch store.Document) error {
	if name, ok := patch["name"]; ok {
		if s, _ := name.(string); s == "" {
			return errors.New("shipping method name is required")
		}
	}
	for _, key := range []string{"price", "free_over"} {
		if raw, ok := patch[key]; ok && raw != nil {
			n, ok := raw.(float64)
			if !ok || n < 0 {
				return fmt.Errorf("shipping method %s must be a non-negative number", key)
			}
		}
	}
	return nil
}
