package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/cryptoclub/cryptoclub-backend-go/checkout"
)

type checkoutRequest struct {
	CustomerName     string `json:"customer_name"`
	CustomerEmail    string `json:"customer_email"`
	CustomerPhone    string `json:"customer_phone"`
	ShippingAddress  string `json:"shipping_address"`
	Notes            string `json:"notes"`
	ShippingMethodID string `json:"shipping_method_id"`
}

type checkoutResponse struct {
	Order       any    `json:"order"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	Completed   bool   `json:"completed,omitempty"`
}

// SubmitCheckout runs the checkout pipeline for the session cart. All
// contact fields except notes are required.
func (h *Handler) SubmitCheckout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	switch {
	case req.CustomerName == "":
		return badRequest(c, "Missing customer_name")
	case req.CustomerEmail == "":
		return badRequest(c, "Missing customer_email")
	case req.CustomerPhone == "":
		return badRequest(c, "Missing customer_phone")
	case req.ShippingAddress == "":
		return badRequest(c, "Missing shipping_address")
	}

	result, err := h.Checkout.Submit(c.Request().Context(), checkout.Request{
		SessionID:        h.sessionID(c),
		Origin:           requestOrigin(c),
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		ShippingAddress:  req.ShippingAddress,
		Notes:            req.Notes,
		ShippingMethodID: req.ShippingMethodID,
	})
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return badRequest(c, "Cart is empty")
	case errors.Is(err, checkout.ErrNoShippingSelected):
		return badRequest(c, "No shipping method selected")
	case err != nil && result.Order.ID != "":
		// Order persisted but the payment session failed; the customer
		// retries, the cart is untouched.
		h.Log.Warn("checkout left order awaiting payment",
			zap.String("order_id", result.Order.ID), zap.Error(err))
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error":    err.Error(),
			"order_id": result.Order.ID,
		})
	case err != nil:
		return errJSON(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, checkoutResponse{
		Order:       result.Order,
		CheckoutURL: result.CheckoutURL,
		Completed:   result.Completed,
	})
}
