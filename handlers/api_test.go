package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptoclub/cryptoclub-backend-go/store"
)

func TestGetCartIssuesSessionToken(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := invoke(t, h.GetCart, testRequest{method: http.MethodGet, path: "/api/cart"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Session-ID"))

	rec = invoke(t, h.GetCart, testRequest{method: http.MethodGet, path: "/api/cart", session: "mine"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Session-ID"))
	assert.Equal(t, "mine", decodeBody(t, rec)["session_id"])
}

func TestAddCartItemEndToEnd(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := invoke(t, h.AddCartItem, testRequest{
		method: http.MethodPost, path: "/api/cart/items",
		body:    `{"product_id":"p1","name":"Tee","price":8990,"size":"M","quantity":2}`,
		session: "s",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, float64(2), items[0].(map[string]any)["quantity"])

	rec = invoke(t, h.AddCartItem, testRequest{
		method: http.MethodPost, path: "/api/cart/items",
		body: `{"name":"no product id"}`, session: "s",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrackPageViewAppliesDefaults(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := invoke(t, h.TrackPageView, testRequest{
		method: http.MethodPost, path: "/api/pageviews",
		body: `{"path":"/products"}`,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Unknown", body["page"])
	assert.Equal(t, "Direct", body["referrer"])
	assert.NotEmpty(t, body["session_id"])
	assert.NotEmpty(t, body["id"])
}

func TestUpdateOrderStatus(t *testing.T) {
	h := newTestHandler(t, nil)
	created, err := h.Orders.Create(context.Background(), store.Document{
		"customer_name": "Teszt Elek",
		"status":        "pending",
		"total_amount":  11490,
	})
	require.NoError(t, err)
	id := created["id"].(string)

	rec := invoke(t, h.UpdateOrderStatus, testRequest{
		method: http.MethodPatch, path: "/api/admin/orders/x/status",
		body:   `{"status":"shipped"}`,
		params: map[string]string{"id": id},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "shipped", body["status"])
	assert.Equal(t, float64(11490), body["total_amount"])

	rec = invoke(t, h.UpdateOrderStatus, testRequest{
		method: http.MethodPatch, path: "/api/admin/orders/x/status",
		body:   `{"status":"teleported"}`,
		params: map[string]string{"id": id},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = invoke(t, h.UpdateOrderStatus, testRequest{
		method: http.MethodPatch, path: "/api/admin/orders/x/status",
		body:   `{"status":"shipped"}`,
		params: map[string]string{"id": "missing"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetStats(t *testing.T) {
	h := newTestHandler(t, nil)
	ctx := context.Background()

	for _, total := range []int{11490, 20000} {
		_, err := h.Orders.Create(ctx, store.Document{
			"customer_name": "Teszt", "status": "pending", "total_amount": total,
		})
		require.NoError(t, err)
	}
	for _, view := range []store.Document{
		{"page": "Home", "session_id": "a"},
		{"page": "Home", "session_id": "b"},
		{"page": "Products", "session_id": "a"},
	} {
		_, err := h.PageViews.Create(ctx, view)
		require.NoError(t, err)
	}

	rec := invoke(t, h.GetStats, testRequest{method: http.MethodGet, path: "/api/admin/stats"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["total_orders"])
	assert.Equal(t, float64(31490), body["total_revenue"])
	assert.Equal(t, float64(2), body["pending_orders"])
	assert.Equal(t, float64(15745), body["average_order_value"])
	assert.Equal(t, float64(3), body["total_page_views"])
	assert.Equal(t, float64(3), body["today_views"])
	assert.Equal(t, float64(2), body["unique_sessions"])
	assert.Equal(t, "100.0", body["conversion_rate"])

	topPages := body["top_pages"].([]any)
	require.NotEmpty(t, topPages)
	assert.Equal(t, "Home", topPages[0].(map[string]any)["page"])
}
