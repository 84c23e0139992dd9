// Package checkout turns a session cart into a persisted order and hands
// off to the payment provider.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cryptoclub/cryptoclub-backend-go/cart"
	"github.com/cryptoclub/cryptoclub-backend-go/models"
	"github.com/cryptoclub/cryptoclub-backend-go/store"
	"github.com/cryptoclub/cryptoclub-backend-go/utils"
)

// Hardcoded shipping rule used when no shipping methods are configured.
// Checkout must stay functional with an empty shipping_methods collection.
const (
	FreeShippingThreshold int64 = 15000
	FallbackShippingFee   int64 = 1490

	fallbackShippingName = "Szállítás"
)

var (
	// ErrEmptyCart blocks submission of an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNoShippingSelected blocks submission when methods exist but none
	// could be resolved.
	ErrNoShippingSelected = errors.New("no shipping method selected")
)

// SessionCreator requests a hosted payment session. A nil creator switches
// the pipeline to the synchronous flow: the order completes immediately
// with status pending and no redirect.
type SessionCreator interface {
	CreateSession(ctx context.Context, req utils.SessionRequest) (*utils.Session, error)
}

// Request carries the customer's checkout submission.
type Request struct {
	SessionID        string
	Origin           string
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	ShippingAddress  string
	Notes            string
	ShippingMethodID string
}

// Result is the outcome of a submission. CheckoutURL is set only on the
// payment flow; Completed is set only on the synchronous flow.
type Result struct {
	Order       models.Order
	CheckoutURL string
	Completed   bool
}

// Service runs the checkout pipeline.
type Service struct {
	orders   *store.Entity
	shipping *store.Entity
	cart     *cart.Service
	payments SessionCreator
	log      *zap.Logger
}

// NewService wires the pipeline. payments may be nil (synchronous flow).
func NewService(orders, shipping *store.Entity, carts *cart.Service, payments SessionCreator, log *zap.Logger) *Service {
	return &Service{orders: orders, shipping: shipping, cart: carts, payments: payments, log: log}
}

// Submit reads the session cart, computes totals, persists the order and
// requests a payment session. A failed session request leaves the order in
// payment_pending and keeps the cart, so the customer can retry; there is
// no compensating rollback.
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	sessionCart, err := s.cart.Get(ctx, req.SessionID)
	if err != nil {
		return Result{}, err
	}
	if len(sessionCart.Items) == 0 {
		return Result{}, ErrEmptyCart
	}

	subtotal := sessionCart.Subtotal()

	methods, err := s.ActiveShippingMethods(ctx)
	if err != nil {
		return Result{}, err
	}

	var selected *models.ShippingMethod
	if len(methods) > 0 {
		selected = selectMethod(methods, req.ShippingMethodID)
		if selected == nil {
			return Result{}, ErrNoShippingSelected
		}
	}

	shippingAmount := s.resolveShippingAmount(selected, subtotal, len(methods) > 0)

	order := models.Order{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
		Items:           orderItems(sessionCart.Items),
		SubtotalAmount:  subtotal,
		Shipping:        shippingSnapshot(selected, shippingAmount),
		TotalAmount:     subtotal + shippingAmount,
		Status:          models.OrderStatusPaymentPending,
	}
	if s.payments == nil {
		order.Status = models.OrderStatusPending
	}
	if err := order.Validate(); err != nil {
		return Result{}, err
	}

	doc, err := store.ToDocument(&order)
	if err != nil {
		return Result{}, fmt.Errorf("encode order: %w", err)
	}
	created, err := s.orders.Create(ctx, doc)
	if err != nil {
		return Result{}, err
	}
	if err := store.Decode(created, &order); err != nil {
		return Result{}, fmt.Errorf("decode created order: %w", err)
	}

	if s.payments == nil {
		if err := s.cart.Clear(ctx, req.SessionID); err != nil {
			s.log.Warn("failed to clear cart after order", zap.Error(err), zap.String("order_id", order.ID))
		}
		s.log.Info("order completed without payment provider",
			zap.String("order_id", order.ID), zap.Int64("total", order.TotalAmount))
		return Result{Order: order, Completed: true}, nil
	}

	session, err := s.payments.CreateSession(ctx, utils.SessionRequest{
		OrderID:        order.ID,
		Items:          paymentItems(sessionCart.Items),
		CustomerEmail:  order.CustomerEmail,
		ShippingName:   order.Shipping.Name,
		ShippingAmount: float64(shippingAmount),
		Origin:         req.Origin,
	})
	if err != nil {
		// The order stays payment_pending; the customer retries manually.
		s.log.Error("payment session request failed",
			zap.Error(err), zap.String("order_id", order.ID))
		return Result{Order: order}, fmt.Errorf("create payment session: %w", err)
	}

	s.log.Info("payment session created",
		zap.String("order_id", order.ID), zap.String("session_id", session.ID))
	return Result{Order: order, CheckoutURL: session.URL}, nil
}

// ActiveShippingMethods returns the selectable methods sorted by sort_order
// (missing sort_order ranks last). A method without an active flag counts
// as active.
func (s *Service) ActiveShippingMethods(ctx context.Context) ([]models.ShippingMethod, error) {
	docs, err := s.shipping.List(ctx, "-created_date", 0)
	if err != nil {
		return nil, err
	}

	methods := []models.ShippingMethod{}
	for _, doc := range docs {
		var m models.ShippingMethod
		if err := store.Decode(doc, &m); err != nil {
			return nil, fmt.Errorf("decode shipping method: %w", err)
		}
		if m.IsActive() {
			methods = append(methods, m)
		}
	}

	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].Rank() < methods[j].Rank()
	})
	return methods, nil
}

func (s *Service) resolveShippingAmount(method *models.ShippingMethod, subtotal int64, configured bool) int64 {
	if configured {
		amount := ShippingAmount(method, subtotal)
		s.log.Debug("shipping resolved from configured method",
			zap.String("method", method.Name), zap.Int64("amount", amount))
		return amount
	}

	amount := FallbackShippingAmount(subtotal)
	s.log.Info("no shipping methods configured, using fallback rule",
		zap.Int64("amount", amount))
	return amount
}

// ShippingAmount is 0 when the subtotal reaches the method's free_over
// threshold, else the method's flat price clamped to a non-negative value.
func ShippingAmount(method *models.ShippingMethod, subtotal int64) int64 {
	if method == nil {
		return 0
	}
	if method.FreeOver != nil && subtotal >= clampAmount(*method.FreeOver) {
		return 0
	}
	return clampAmount(method.Price)
}

// FallbackShippingAmount applies the hardcoded rule: free strictly above
// the threshold, else the flat fee.
func FallbackShippingAmount(subtotal int64) int64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FallbackShippingFee
}

func selectMethod(methods []models.ShippingMethod, id string) *models.ShippingMethod {
	if id != "" {
		for i := range methods {
			if methods[i].ID == id {
				return &methods[i]
			}
		}
	}
	if len(methods) > 0 {
		return &methods[0]
	}
	return nil
}

func shippingSnapshot(method *models.ShippingMethod, amount int64) models.OrderShipping {
	if method == nil {
		threshold := FreeShippingThreshold
		return models.OrderShipping{
			Name:     fallbackShippingName,
			Price:    amount,
			FreeOver: &threshold,
			Amount:   amount,
		}
	}
	return models.OrderShipping{
		ID:          method.ID,
		Name:        method.Name,
		Description: method.Description,
		ETA:         method.ETA,
		Price:       clampAmount(method.Price),
		FreeOver:    method.FreeOver,
		Amount:      amount,
	}
}

func orderItems(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Size:        item.Size,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return out
}

func paymentItems(items []models.CartItem) []utils.PaymentItem {
	out := make([]utils.PaymentItem, 0, len(items))
	for _, item := range items {
		out = append(out, utils.PaymentItem{
			ID:       item.ProductID,
			Name:     item.Name,
			Size:     item.Size,
			Quantity: float64(item.Quantity),
			Price:    float64(item.Price),
		})
	}
	return out
}

func clampAmount(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
