package polymarket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/marketpulse/config"
	"github.com/alejandrodnm/marketpulse/internal/domain"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(config.APIConfig{
		APIKey:            "pk-test",
		BaseURL:           srv.URL,
		RateLimit:         60000,
		BurstLimit:        1000,
		TimeoutSeconds:    5,
		RetryAttempts:     1,
		RetryDelaySeconds: 0.001,
	})
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClient_GetMarkets(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/markets", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		assert.Equal(t, "crypto", r.URL.Query().Get("category"))
		assert.Equal(t, "Bearer pk-test", r.Header.Get("Authorization"))

		w.Write([]byte(`{"markets": [` + sampleMarket + `]}`))
	})

	markets, err := c.GetMarkets(context.Background(), "crypto", 25)
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Equal(t, "0xc0ffee", markets[0].ID)
	assert.Equal(t, domain.PlatformPolymarket, markets[0].Platform)
}

func TestClient_GetMarket_Wrapped(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/markets/0xc0ffee", r.URL.Path)
		w.Write([]byte(`{"market": ` + sampleMarket + `}`))
	})

	m, err := c.GetMarket(context.Background(), "0xc0ffee")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "0xc0ffee", m.ID)
}

func TestClient_GetMarket_Flat(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleMarket))
	})

	m, err := c.GetMarket(context.Background(), "0xc0ffee")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "0xc0ffee", m.ID)
}

func TestClient_GetMarket_NotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	m, err := c.GetMarket(context.Background(), "nope")
	require.NoError(t, err, "not-found no es un error")
	assert.Nil(t, m)
}

func TestClient_PlaceOrder_Success(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		w.Write([]byte(`{"order_id": "ord-9", "filled_quantity": 10, "average_price": 0.5}`))
	})

	price := 0.5
	resp := c.PlaceOrder(context.Background(), domain.OrderRequest{
		MarketID:  "0xc0ffee",
		Outcome:   "Yes",
		OrderType: domain.OrderBuy,
		Quantity:  10,
		Price:     &price,
	})

	assert.True(t, resp.Success)
	assert.Equal(t, "ord-9", resp.OrderID)
	assert.Equal(t, 10, resp.FilledQuantity)
	assert.Empty(t, resp.ErrorMessage)
}

func TestClient_PlaceOrder_VenueRejection(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient balance", http.StatusBadRequest)
	})

	resp := c.PlaceOrder(context.Background(), domain.OrderRequest{
		MarketID:  "0xc0ffee",
		OrderType: domain.OrderBuy,
		Quantity:  1,
	})

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.ErrorMessage)
	assert.Empty(t, resp.OrderID)
}

func TestClient_GetUserBalance(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/balance", r.URL.Path)
		w.Write([]byte(`{"balances": {"USDC": 1250.5}}`))
	})

	bal, err := c.GetUserBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1250.5, bal["USDC"])
}

func TestClient_GetUserOrders(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mkt-1", r.URL.Query().Get("market_id"))
		w.Write([]byte(`{"orders": [{"id": "o1"}, {"id": "o2"}]}`))
	})

	orders, err := c.GetUserOrders(context.Background(), "mkt-1")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
