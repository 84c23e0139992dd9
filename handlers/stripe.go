package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/cryptoclub/cryptoclub-backend-go/checkout"
	"github.com/cryptoclub/cryptoclub-backend-go/utils"
)

type createSessionRequest struct {
	OrderID       string              `json:"orderId"`
	Items         []utils.PaymentItem `json:"items"`
	CustomerEmail string              `json:"customerEmail"`
	Shipping      *sessionShipping    `json:"shipping"`
}

type sessionShipping struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// CreateCheckoutSession validates the request and asks the payment
// provider for a hosted session. Provider errors are relayed verbatim
// (message, type, code, param) for operator debuggability.
func (h *Handler) CreateCheckoutSession(c echo.Context) error {
	if err := utils.ValidateSecretKey(h.StripeKey); err != nil {
		return errJSON(c, http.StatusInternalServerError, err.Error())
	}

	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	if req.OrderID == "" {
		return badRequest(c, "Missing orderId")
	}
	if len(req.Items) == 0 {
		return badRequest(c, "Cart is empty")
	}

	sessions := h.Sessions
	if sessions == nil {
		processor, err := utils.NewStripeProcessor(h.StripeKey)
		if err != nil {
			return errJSON(c, http.StatusInternalServerError, err.Error())
		}
		sessions = processor
	}

	sessionReq := utils.SessionRequest{
		OrderID:       req.OrderID,
		Items:         req.Items,
		CustomerEmail: req.CustomerEmail,
		Origin:        requestOrigin(c),
	}
	if req.Shipping != nil {
		sessionReq.ShippingName = req.Shipping.Name
		sessionReq.ShippingAmount = req.Shipping.Amount
	}

	session, err := sessions.CreateSession(c.Request().Context(), sessionReq)
	if err != nil {
		h.Log.Error("checkout session creation failed",
			zap.String("order_id", req.OrderID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, stripeErrorBody(err))
	}

	return c.JSON(http.StatusOK, map[string]string{"id": session.ID, "url": session.URL})
}

// stripeErrorBody passes the provider's message, type, code and param
// through unchanged; anything else degrades to a plain error string.
func stripeErrorBody(err error) map[string]any {
	var sErr *stripe.Error
	if !errors.As(err, &sErr) {
		return map[string]any{"error": err.Error()}
	}

	body := map[string]any{"error": sErr.Msg}
	if sErr.Msg == "" {
		body["error"] = "Stripe session creation failed"
	}
	if sErr.Type != "" {
		body["type"] = string(sErr.Type)
	}
	if sErr.Code != "" {
		body["code"] = string(sErr.Code)
	}
	if sErr.Param != "" {
		body["param"] = sErr.Param
	}
	return body
}

var _ checkout.SessionCreator = (*utils.StripeProcessor)(nil)
