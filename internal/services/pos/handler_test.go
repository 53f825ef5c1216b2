package pos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-system/internal/cart"
	"pos-system/internal/logger"
)

func newTestServer(t *testing.T) (*httptest.Server, *fixture) {
	t.Helper()
	f := newFixture()
	handler := NewHandler(f.service, logger.New("pos-test"))
	srv := httptest.NewServer(handler.SetupRoutes())
	t.Cleanup(srv.Close)
	return srv, f
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createTestCart(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/carts", map[string]string{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[map[string]interface{}](t, resp)
	id, ok := created["cart_id"].(string)
	require.True(t, ok)
	return id
}

func TestHandler_CartLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	cartID := createTestCart(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/carts/"+cartID+"/items",
		map[string]string{"product_id": "p1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decode[cart.Snapshot](t, resp)
	assert.Equal(t, 500.0, snap.Totals.Subtotal)

	resp = doJSON(t, http.MethodPut, srv.URL+"/carts/"+cartID+"/items/p1",
		map[string]int{"quantity": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decode[cart.Snapshot](t, resp)
	assert.Equal(t, 1500.0, snap.Totals.Subtotal)

	resp = doJSON(t, http.MethodPut, srv.URL+"/carts/"+cartID+"/discount",
		map[string]interface{}{"amount": 10, "kind": "percentage"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decode[cart.Snapshot](t, resp)
	assert.Equal(t, 150.0, snap.Totals.DiscountAmount)
	assert.Equal(t, 1350.0, snap.Totals.Total)

	resp = doJSON(t, http.MethodPut, srv.URL+"/carts/"+cartID+"/order-type",
		map[string]string{"order_type": "delivery"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decode[cart.Snapshot](t, resp)
	assert.Equal(t, 30.0, snap.Totals.DeliveryFee)
	assert.Equal(t, 1380.0, snap.Totals.Total)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/carts/"+cartID+"/items/p1", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	snap = decode[cart.Snapshot](t, delResp)
	assert.Empty(t, snap.Lines)
	assert.Equal(t, 0.0, snap.Totals.Subtotal)
}

func TestHandler_ValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	cartID := createTestCart(t, srv)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{
			name:   "unknown discount kind",
			method: http.MethodPut,
			path:   fmt.Sprintf("/carts/%s/discount", cartID),
			body:   map[string]interface{}{"amount": 10, "kind": "loyalty"},
			status: http.StatusBadRequest,
		},
		{
			name:   "percentage above 100",
			method: http.MethodPut,
			path:   fmt.Sprintf("/carts/%s/discount", cartID),
			body:   map[string]interface{}{"amount": 150, "kind": "percentage"},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown order type",
			method: http.MethodPut,
			path:   fmt.Sprintf("/carts/%s/order-type", cartID),
			body:   map[string]string{"order_type": "drive_through"},
			status: http.StatusBadRequest,
		},
		{
			name:   "table number out of range",
			method: http.MethodPut,
			path:   fmt.Sprintf("/carts/%s/table", cartID),
			body:   map[string]int{"table_number": 500},
			status: http.StatusBadRequest,
		},
		{
			name:   "missing product id",
			method: http.MethodPost,
			path:   fmt.Sprintf("/carts/%s/items", cartID),
			body:   map[string]string{},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown cart",
			method: http.MethodPost,
			path:   "/carts/no-such-cart/items",
			body:   map[string]string{"product_id": "p1"},
			status: http.StatusNotFound,
		},
		{
			name:   "unknown product",
			method: http.MethodPost,
			path:   fmt.Sprintf("/carts/%s/items", cartID),
			body:   map[string]string{"product_id": "ghost"},
			status: http.StatusNotFound,
		},
		{
			name:   "checkout with empty cart",
			method: http.MethodPost,
			path:   fmt.Sprintf("/carts/%s/checkout", cartID),
			body:   map[string]string{"cashier_name": "Sam"},
			status: http.StatusConflict,
		},
		{
			name:   "checkout with bad cashier name",
			method: http.MethodPost,
			path:   fmt.Sprintf("/carts/%s/checkout", cartID),
			body:   map[string]string{"cashier_name": "Sam<script>"},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, tt.method, srv.URL+tt.path, tt.body)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestHandler_HealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]interface{}](t, resp)
	assert.Equal(t, "ok", body["status"])
}
