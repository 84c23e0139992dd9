package utils

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// Mixing up publishable and secret keys is a common misconfiguration, so
// the two cases get distinct diagnostics.
var (
	ErrMissingSecretKey = errors.New("Missing STRIPE_SECRET_KEY env var")
	ErrPublishableKey   = errors.New("STRIPE_SECRET_KEY must start with sk_ (you probably set a pk_ key)")
)

// ValidateSecretKey checks the provider key convention before any call.
func ValidateSecretKey(key string) error {
	if key == "" {
		return ErrMissingSecretKey
	}
	if !strings.HasPrefix(key, "sk_") {
		return ErrPublishableKey
	}
	return nil
}

// PaymentItem is one cart line as submitted to the session endpoint.
// Quantity and price arrive as JSON numbers and are clamped before they
// reach the provider's zero-decimal line-item API.
type PaymentItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Size     string  `json:"size,omitempty"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// SessionRequest describes one hosted-checkout session.
type SessionRequest struct {
	OrderID        string
	Items          []PaymentItem
	CustomerEmail  string
	ShippingName   string
	ShippingAmount float64
	Origin         string
}

// Session is the provider's response: the id and the URL to redirect the
// customer to.
type Session struct {
	ID  string
	URL string
}

// StripeProcessor creates hosted checkout sessions in HUF (zero-decimal).
type StripeProcessor struct {
	api *client.API
}

// NewStripeProcessor validates the key and builds the API client.
func NewStripeProcessor(secretKey string) (*StripeProcessor, error) {
	if err := ValidateSecretKey(secretKey); err != nil {
		return nil, err
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProcessor{api: api}, nil
}

// CreateSession requests a payment-mode checkout session. Provider errors
// are returned as-is so callers can relay message, type and code verbatim.
func (p *StripeProcessor) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  CheckoutLineItems(req.Items, req.ShippingName, req.ShippingAmount),
		SuccessURL: stripe.String(SuccessURL(req.Origin, req.OrderID)),
		CancelURL:  stripe.String(CancelURL(req.Origin, req.OrderID)),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.AddMetadata("orderId", req.OrderID)

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &Session{ID: session.ID, URL: session.URL}, nil
}

// CheckoutLineItems converts cart lines into the provider shape: quantity
// floored at 1, unit amount rounded and clamped non-negative, name
// defaulted. A shipping line is appended only when its amount is positive.
func CheckoutLineItems(items []PaymentItem, shippingName string, shippingAmount float64) []*stripe.CheckoutSessionLineItemParams {
	lines := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items)+1)
	for _, item := range items {
		name := item.Name
		if name == "" {
			name = "Termék"
		}
		lines = append(lines, lineItem(name, ClampQuantity(item.Quantity), ClampUnitAmount(item.Price)))
	}

	amount := ClampUnitAmount(shippingAmount)
	if amount > 0 {
		name := shippingName
		if name == "" {
			name = "Szállítás"
		}
		lines = append(lines, lineItem(fmt.Sprintf("Szállítás – %s", name), 1, amount))
	}
	return lines
}

func lineItem(name string, quantity, unitAmount int64) *stripe.CheckoutSessionLineItemParams {
	return &stripe.CheckoutSessionLineItemParams{
		Quantity: stripe.Int64(quantity),
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(string(stripe.CurrencyHUF)),
			UnitAmount: stripe.Int64(unitAmount),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(name),
			},
		},
	}
}

// SuccessURL embeds the order id and the provider's session-id placeholder.
func SuccessURL(origin, orderID string) string {
	return fmt.Sprintf("%s/checkout/success?order_id=%s&session_id={CHECKOUT_SESSION_ID}",
		origin, url.QueryEscape(orderID))
}

// CancelURL sends the customer back to the checkout page with the order id.
func CancelURL(origin, orderID string) string {
	return fmt.Sprintf("%s/checkout?canceled=1&order_id=%s", origin, url.QueryEscape(orderID))
}

// ClampQuantity floors a line quantity at 1.
func ClampQuantity(q float64) int64 {
	n := int64(math.Round(q))
	if n < 1 {
		return 1
	}
	return n
}

// ClampUnitAmount rounds to a whole zero-decimal amount and clamps at 0.
// A fractional or negative value here is a programmer error upstream; it
// is corrected rather than rejected at the boundary.
func ClampUnitAmount(p float64) int64 {
	n := int64(math.Round(p))
	if n < 0 {
		return 0
	}
	return n
}
