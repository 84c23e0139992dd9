package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cryptoclub/cryptoclub-backend-go/cart"
	"github.com/cryptoclub/cryptoclub-backend-go/models"
	"github.com/cryptoclub/cryptoclub-backend-go/store"
	"github.com/cryptoclub/cryptoclub-backend-go/utils"
)

type fakeSessions struct {
	req *utils.SessionRequest
	err error
}

func (f *fakeSessions) CreateSession(_ context.Context, req utils.SessionRequest) (*utils.Session, error) {
	f.req = &req
	if f.err != nil {
		return nil, f.err
	}
	return &utils.Session{ID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
}

type fixture struct {
	svc      *Service
	orders   *store.Entity
	shipping *store.Entity
	cart     *cart.Service
}

func newFixture(t *testing.T, payments SessionCreator) *fixture {
	t.Helper()
	backend := store.NewMemoryBackend()
	orders := store.NewEntity(backend, "orders")
	shipping := store.NewEntity(backend, "shipping_methods")
	carts := cart.NewService(store.NewEntity(backend, "carts"), zap.NewNop())
	return &fixture{
		svc:      NewService(orders, shipping, carts, payments, zap.NewNop()),
		orders:   orders,
		shipping: shipping,
		cart:     carts,
	}
}

func (f *fixture) addItem(t *testing.T, session string, price, quantity int64) {
	t.Helper()
	_, err := f.cart.Add(context.Background(), session, models.CartItem{
		ProductID: "p1", Name: "Bitcoin Hoodie", Price: price, Quantity: quantity,
	})
	require.NoError(t, err)
}

func (f *fixture) addMethod(t *testing.T, m models.ShippingMethod) string {
	t.Helper()
	doc, err := store.ToDocument(&m)
	require.NoError(t, err)
	created, err := f.shipping.Create(context.Background(), doc)
	require.NoError(t, err)
	return created["id"].(string)
}

func submitRequest(session string) Request {
	return Request{
		SessionID:       session,
		Origin:          "https://shop.example",
		CustomerName:    "Teszt Elek",
		CustomerEmail:   "teszt@example.com",
		CustomerPhone:   "+36301234567",
		ShippingAddress: "Budapest, Fő utca 1.",
	}
}

func TestFallbackShippingAmount(t *testing.T) {
	assert.Equal(t, FallbackShippingFee, FallbackShippingAmount(10000))
	assert.Equal(t, FallbackShippingFee, FallbackShippingAmount(15000))
	assert.Equal(t, int64(0), FallbackShippingAmount(15001))
}

func TestShippingAmountWithThreshold(t *testing.T) {
	freeOver := int64(15000)
	method := &models.ShippingMethod{Name: "GLS", Price: 1200, FreeOver: &freeOver}

	assert.Equal(t, int64(1200), ShippingAmount(method, 14999))
	assert.Equal(t, int64(0), ShippingAmount(method, 15000))
	assert.Equal(t, int64(0), ShippingAmount(method, 20000))

	noThreshold := &models.ShippingMethod{Name: "MPL", Price: 990}
	assert.Equal(t, int64(990), ShippingAmount(noThreshold, 1_000_000))
}

func TestSubmitWithFallbackShipping(t *testing.T) {
	sessions := &fakeSessions{}
	f := newFixture(t, sessions)
	f.addItem(t, "s", 5000, 2)

	result, err := f.svc.Submit(context.Background(), submitRequest("s"))
	require.NoError(t, err)

	order := result.Order
	assert.Equal(t, int64(10000), order.SubtotalAmount)
	assert.Equal(t, FallbackShippingFee, order.Shipping.Amount)
	assert.Equal(t, int64(11490), order.TotalAmount)
	assert.Equal(t, models.OrderStatusPaymentPending, order.Status)
	assert.Equal(t, "Szállítás", order.Shipping.Name)
	require.NotNil(t, order.Shipping.FreeOver)
	assert.Equal(t, FreeShippingThreshold, *order.Shipping.FreeOver)

	assert.Equal(t, "https://checkout.example/cs_test_1", result.CheckoutURL)
	require.NotNil(t, sessions.req)
	assert.Equal(t, order.ID, sessions.req.OrderID)
	assert.Equal(t, float64(FallbackShippingFee), sessions.req.ShippingAmount)
	assert.Equal(t, "https://shop.example", sessions.req.Origin)

	// The payment flow leaves the cart alone until the provider confirms.
	cartAfter, err := f.cart.Get(context.Background(), "s")
	require.NoError(t, err)
	assert.Len(t, cartAfter.Items, 1)
}

func TestSubmitWithConfiguredMethodFreeOver(t *testing.T) {
	sessions := &fakeSessions{}
	f := newFixture(t, sessions)
	freeOver := int64(15000)
	f.addMethod(t, models.ShippingMethod{Name: "GLS", Price: 1200, FreeOver: &freeOver})
	f.addItem(t, "s", 10000, 2)

	result, err := f.svc.Submit(context.Background(), submitRequest("s"))
	require.NoError(t, err)

	assert.Equal(t, int64(20000), result.Order.SubtotalAmount)
	assert.Equal(t, int64(0), result.Order.Shipping.Amount)
	assert.Equal(t, int64(20000), result.Order.TotalAmount)
	assert.Equal(t, "GLS", result.Order.Shipping.Name)
	assert.NotEmpty(t, result.Order.Shipping.ID)
}

func TestSubmitSelectsMethodBySortOrderAndID(t *testing.T) {
	f := newFixture(t, &fakeSessions{})
	second := int64(2)
	first := int64(1)
	f.addMethod(t, models.ShippingMethod{Name: "Posta", Price: 1990, SortOrder: &second})
	expressID := f.addMethod(t, models.ShippingMethod{Name: "Express", Price: 2990, SortOrder: &first})
	f.addItem(t, "s", 1000, 1)

	// No explicit selection: lowest sort_order wins.
	result, err := f.svc.Submit(context.Background(), submitRequest("s"))
	require.NoError(t, err)
	assert.Equal(t, "Express", result.Order.Shipping.Name)

	// Explicit selection by id.
	f.addItem(t, "s2", 1000, 1)
	req := submitRequest("s2")
	req.ShippingMethodID = expressID
	result, err = f.svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Express", result.Order.Shipping.Name)
	assert.Equal(t, int64(2990), result.Order.Shipping.Amount)
}

func TestSubmitSkipsInactiveMethods(t *testing.T) {
	f := newFixture(t, &fakeSessions{})
	inactive := false
	f.addMethod(t, models.ShippingMethod{Name: "Closed", Price: 100, Active: &inactive})
	f.addItem(t, "s", 5000, 2)

	// Only inactive methods exist, so the fallback rule applies.
	result, err := f.svc.Submit(context.Background(), submitRequest("s"))
	require.NoError(t, err)
	assert.Equal(t, "Szállítás", result.Order.Shipping.Name)
	assert.Equal(t, FallbackShippingFee, result.Order.Shipping.Amount)
}

func TestSubmitEmptyCart(t *testing.T) {
	f := newFixture(t, &fakeSessions{})

	_, err := f.svc.Submit(context.Background(), submitRequest("s"))
	assert.ErrorIs(t, err, ErrEmptyCart)

	docs, err := f.orders.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSubmitSynchronousFlow(t *testing.T) {
	f := newFixture(t, nil)
	f.addItem(t, "s", 5000, 1)

	result, err := f.svc.Submit(context.Background(), submitRequest("s"))
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Empty(t, result.CheckoutURL)
	assert.Equal(t, models.OrderStatusPending, result.Order.Status)

	cartAfter, err := f.cart.Get(context.Background(), "s")
	require.NoError(t, err)
	assert.Empty(t, cartAfter.Items)
}

func TestSubmitPaymentFailureKeepsOrderAndCart(t *testing.T) {
	sessions := &fakeSessions{err: errors.New("provider unavailable")}
	f := newFixture(t, sessions)
	f.addItem(t, "s", 5000, 2)

	result, err := f.svc.Submit(context.Background(), submitRequest("s"))
	require.Error(t, err)
	require.NotEmpty(t, result.Order.ID)

	// The order survives in payment_pending; no rollback is attempted.
	docs, err := f.orders.Filter(context.Background(), store.Criteria{"id": result.Order.ID}, "", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, string(models.OrderStatusPaymentPending), docs[0]["status"])

	cartAfter, err := f.cart.Get(context.Background(), "s")
	require.NoError(t, err)
	assert.Len(t, cartAfter.Items, 1)
}
