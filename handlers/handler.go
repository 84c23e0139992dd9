package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/cryptoclub/cryptoclub-backend-go/cart"
	"github.com/cryptoclub/cryptoclub-backend-go/checkout"
	"github.com/cryptoclub/cryptoclub-backend-go/store"
	"github.com/cryptoclub/cryptoclub-backend-go/utils"
)

// Handler carries the wired services for the HTTP layer.
type Handler struct {
	Products        *store.Entity
	Orders          *store.Entity
	ShippingMethods *store.Entity
	PageViews       *store.Entity
	Cart            *cart.Service
	Checkout        *checkout.Service
	Uploader        *utils.Uploader

	// StripeKey is validated per request so a misconfigured deployment
	// reports the exact problem instead of failing opaquely.
	StripeKey string
	// Sessions overrides the Stripe-backed session creator (tests).
	Sessions checkout.SessionCreator

	Log *zap.Logger
}

// sessionID returns the client session token, issuing a fresh one in the
// response header when the client did not send any.
func (h *Handler) sessionID(c echo.Context) string {
	sid := c.Request().Header.Get("X-Session-ID")
	if sid == "" {
		sid = uuid.NewString()
		c.Response().Header().Set("X-Session-ID", sid)
	}
	return sid
}

// requestOrigin prefers the Origin header and falls back to reconstructing
// one from the forwarded protocol and host.
func requestOrigin(c echo.Context) string {
	if origin := c.Request().Header.Get(echo.HeaderOrigin); origin != "" {
		return origin
	}
	proto := c.Request().Header.Get("X-Forwarded-Proto")
	if proto == "" {
		proto = "https"
	}
	return proto + "://" + c.Request().Host
}

func errJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func badRequest(c echo.Context, msg string) error {
	return errJSON(c, http.StatusBadRequest, msg)
}
