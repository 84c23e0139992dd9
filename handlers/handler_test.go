package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cryptoclub/cryptoclub-backend-go/cart"
	"github.com/cryptoclub/cryptoclub-backend-go/checkout"
	"github.com/cryptoclub/cryptoclub-backend-go/store"
	"github.com/cryptoclub/cryptoclub-backend-go/utils"
)

// newTestHandler wires a full handler over the in-memory backend.
// payments may be nil for the synchronous checkout flow.
func newTestHandler(t *testing.T, payments checkout.SessionCreator) *Handler {
	t.Helper()

	backend := store.NewMemoryBackend()
	products := store.NewEntity(backend, "products")
	orders := store.NewEntity(backend, "orders")
	shippingMethods := store.NewEntity(backend, "shipping_methods")
	pageViews := store.NewEntity(backend, "page_views")
	carts := cart.NewService(store.NewEntity(backend, "carts"), zap.NewNop())

	return &Handler{
		Products:        products,
		Orders:          orders,
		ShippingMethods: shippingMethods,
		PageViews:       pageViews,
		Cart:            carts,
		Checkout:        checkout.NewService(orders, shippingMethods, carts, payments, zap.NewNop()),
		Uploader:        utils.NewUploader(context.Background(), "eu-central-1", "", zap.NewNop()),
		Log:             zap.NewNop(),
	}
}

type testRequest struct {
	method  string
	path    string
	body    string
	session string
	params  map[string]string
}

func invoke(t *testing.T, fn echo.HandlerFunc, req testRequest) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	httpReq := httptest.NewRequest(req.method, req.path, strings.NewReader(req.body))
	if req.body != "" {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if req.session != "" {
		httpReq.Header.Set("X-Session-ID", req.session)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httpReq, rec)
	if len(req.params) > 0 {
		names := make([]string, 0, len(req.params))
		values := make([]string, 0, len(req.params))
		for name, value := range req.params {
			names = append(names, name)
			values = append(values, value)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	require.NoError(t, fn(c))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
