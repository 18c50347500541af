package kalshi

// client.go — adapter de Kalshi (trade API v2).
//
// Kalshi es siempre binario Yes/No. Los requests firmados llevan
// X-API-Key + X-Timestamp + X-Signature (ver auth.go).

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/alejandrodnm/marketpulse/config"
	"github.com/alejandrodnm/marketpulse/internal/adapters/venue"
	"github.com/alejandrodnm/marketpulse/internal/domain"
)

const (
	// maxLimit es el máximo de mercados por página que acepta Kalshi.
	maxLimit = 100
	// orderTTL es la expiración que se adjunta a cada orden limit.
	orderTTL = time.Hour
)

// Client implementa ports.VenueClient para Kalshi.
type Client struct {
	pipeline *venue.Pipeline
	baseURL  string
}

// New crea el cliente con la configuración del venue.
func New(cfg config.APIConfig) *Client {
	return &Client{
		pipeline: venue.NewPipeline(cfg, authHeaders(cfg.APIKey, cfg.SecretKey, nil)),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// GetMarkets devuelve hasta limit mercados, filtrados por categoría.
func (c *Client) GetMarkets(ctx context.Context, category string, limit int) ([]domain.Market, error) {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	u := fmt.Sprintf("%s/markets?limit=%d", c.baseURL, limit)
	if category != "" {
		u += "&category=" + url.QueryEscape(category)
	}

	var resp marketsResponse
	if err := c.pipeline.Get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("kalshi.GetMarkets: %w", err)
	}

	markets := mapMarkets(resp.Markets)
	slog.Debug("kalshi markets fetched", "count", len(markets), "category", category)
	return markets, nil
}

// GetMarket devuelve un mercado por ticker, o (nil, nil) si no existe.
func (c *Client) GetMarket(ctx context.Context, marketID string) (*domain.Market, error) {
	u := fmt.Sprintf("%s/markets/%s", c.baseURL, url.PathEscape(marketID))

	var env marketEnvelope
	if err := c.pipeline.Get(ctx, u, &env); err != nil {
		if venue.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("kalshi.GetMarket %s: %w", marketID, err)
	}

	raw := env.rawMarket
	if env.Market != nil {
		raw = *env.Market
	}
	m := mapMarket(raw)
	return &m, nil
}

// PlaceOrder envía una orden limit al venue. Cualquier fallo se devuelve como
// Success=false — nunca como error.
func (c *Client) PlaceOrder(ctx context.Context, order domain.OrderRequest) domain.OrderResponse {
	side := "BUY"
	if order.OrderType == domain.OrderSell {
		side = "SELL"
	}

	body := map[string]any{
		"ticker":          order.MarketID,
		"side":            side,
		"count":           order.Quantity,
		"type":            "LIMIT",
		"expiration_time": time.Now().Add(orderTTL).Unix(),
	}
	if order.Price != nil {
		body["price"] = *order.Price
	}

	var resp orderResult
	if err := c.pipeline.Post(ctx, c.baseURL+"/orders", body, &resp); err != nil {
		slog.Error("kalshi order failed", "ticker", order.MarketID, "err", err)
		return domain.OrderFailure(err.Error())
	}

	return domain.OrderResponse{
		Success:        true,
		OrderID:        resp.ID,
		FilledQuantity: resp.Filled,
		AveragePrice:   resp.AveragePrice,
		TotalCost:      resp.TotalCost,
		Fees:           resp.Fees,
		Timestamp:      time.Now().UTC(),
	}
}

// GetUserBalance devuelve buying power y colateral de la cuenta.
func (c *Client) GetUserBalance(ctx context.Context) (map[string]float64, error) {
	var resp accountResponse
	if err := c.pipeline.Get(ctx, c.baseURL+"/account", &resp); err != nil {
		return nil, fmt.Errorf("kalshi.GetUserBalance: %w", err)
	}
	return map[string]float64{
		"USD":        resp.Account.BuyingPower,
		"collateral": resp.Account.Collateral,
	}, nil
}

// GetUserOrders devuelve las órdenes raw de la cuenta, filtradas por ticker.
func (c *Client) GetUserOrders(ctx context.Context, marketID string) ([]map[string]any, error) {
	u := c.baseURL + "/orders"
	if marketID != "" {
		u += "?ticker=" + url.QueryEscape(marketID)
	}

	var resp ordersResponse
	if err := c.pipeline.Get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("kalshi.GetUserOrders: %w", err)
	}
	return resp.Orders, nil
}

// Close libera el connection pool del cliente.
func (c *Client) Close() error {
	c.pipeline.Close()
	return nil
}
