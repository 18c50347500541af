package polymarket

// client.go — adapter de Polymarket (Gamma API).
//
// La lectura de mercados es pública; las operaciones de cuenta requieren
// Authorization: Bearer. Todo pasa por el pipeline compartido (rate limiting,
// retries, 429 cool-down).

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

// maxLimit es el límite máximo de mercados por página que acepta Polymarket.
const maxLimit = 200

// Client implementa ports.VenueClient para Polymarket.
type Client struct {
	pipeline *venue.Pipeline
	baseURL  string
}

// New crea el cliente con la configuración del venue.
func New(cfg config.APIConfig) *Client {
	return &Client{
		pipeline: venue.NewPipeline(cfg, venue.BearerAuth(cfg.APIKey)),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// GetMarkets devuelve hasta limit mercados activos, filtrados por categoría.
func (c *Client) GetMarkets(ctx context.Context, category string, limit int) ([]domain.Market, error) {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	u := fmt.Sprintf("%s/markets?limit=%d&active=true", c.baseURL, limit)
	if category != "" {
		u += "&category=" + url.QueryEscape(category)
	}

	var resp marketsResponse
	if err := c.pipeline.Get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("polymarket.GetMarkets: %w", err)
	}

	markets := mapMarkets(resp.Markets)
	slog.Debug("polymarket markets fetched", "count", len(markets), "category", category)
	return markets, nil
}

// GetMarket devuelve un mercado por ID, o (nil, nil) si el venue no lo conoce.
func (c *Client) GetMarket(ctx context.Context, marketID string) (*domain.Market, error) {
	u := fmt.Sprintf("%s/markets/%s", c.baseURL, url.PathEscape(marketID))

	// Algunos endpoints envuelven el mercado en {"market": ...}, otros lo
	// devuelven plano; el envelope acepta ambos.
	var env marketEnvelope
	if err := c.pipeline.Get(ctx, u, &env); err != nil {
		if venue.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("polymarket.GetMarket %s: %w", marketID, err)
	}

	raw := env.rawMarket
	if env.Market != nil {
		raw = *env.Market
	}
	m := mapMarket(raw)
	return &m, nil
}

// PlaceOrder envía la orden al venue. Cualquier fallo se devuelve como
// Success=false — nunca como error.
func (c *Client) PlaceOrder(ctx context.Context, order domain.OrderRequest) domain.OrderResponse {
	body := map[string]any{
		"market_id":     order.MarketID,
		"outcome":       order.Outcome,
		"order_type":    string(order.OrderType),
		"quantity":      order.Quantity,
		"time_in_force": order.TimeInForce,
	}
	if order.Price != nil {
		body["price"] = *order.Price
	}

	var resp orderResult
	if err := c.pipeline.Post(ctx, c.baseURL+"/orders", body, &resp); err != nil {
		slog.Error("polymarket order failed", "market_id", order.MarketID, "err", err)
		return domain.OrderFailure(err.Error())
	}

	return domain.OrderResponse{
		Success:        true,
		OrderID:        resp.OrderID,
		FilledQuantity: resp.FilledQuantity,
		AveragePrice:   resp.AveragePrice,
		TotalCost:      resp.TotalCost,
		Fees:           resp.Fees,
		Timestamp:      time.Now().UTC(),
	}
}

// GetUserBalance devuelve los balances de la cuenta autenticada.
func (c *Client) GetUserBalance(ctx context.Context) (map[string]float64, error) {
	var resp balanceResponse
	if err := c.pipeline.Get(ctx, c.baseURL+"/account/balance", &resp); err != nil {
		return nil, fmt.Errorf("polymarket.GetUserBalance: %w", err)
	}
	return resp.Balances, nil
}

// GetUserOrders devuelve las órdenes raw de la cuenta, filtradas por mercado.
func (c *Client) GetUserOrders(ctx context.Context, marketID string) ([]map[string]any, error) {
	u := c.baseURL + "/account/orders"
	if marketID != "" {
		u += "?market_id=" + url.QueryEscape(marketID)
	}

	var resp ordersResponse
	if err := c.pipeline.Get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("polymarket.GetUserOrders: %w", err)
	}
	return resp.Orders, nil
}

// Close libera el connection pool del cliente.
func (c *Client) Close() error {
	c.pipeline.Close()
	return nil
}
