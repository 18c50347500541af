package manifold

// client.go — adapter de Manifold Markets (API v0).
//
// Manifold opera con mana (moneda de juego) y autentica con un Bearer key
// opcional: los endpoints de lectura funcionan sin credencial.

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

// maxLimit es el máximo de mercados por página que acepta Manifold.
const maxLimit = 200

// Client implementa ports.VenueClient para Manifold.
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

// GetMarkets devuelve hasta limit mercados. Manifold no filtra por categoría
// server-side, así que el filtro de grupo se aplica sobre la respuesta.
func (c *Client) GetMarkets(ctx context.Context, category string, limit int) ([]domain.Market, error) {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	u := fmt.Sprintf("%s/markets?limit=%d", c.baseURL, limit)

	var raw marketList
	if err := c.pipeline.Get(ctx, u, &raw); err != nil {
		return nil, fmt.Errorf("manifold.GetMarkets: %w", err)
	}

	markets := mapMarkets(raw)
	if category != "" {
		markets = filterCategory(markets, category)
	}
	slog.Debug("manifold markets fetched", "count", len(markets), "category", category)
	return markets, nil
}

// filterCategory deja solo los mercados cuyo grupo coincide (case-insensitive).
func filterCategory(markets []domain.Market, category string) []domain.Market {
	filtered := markets[:0]
	for _, m := range markets {
		if strings.EqualFold(m.Category, category) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// GetMarket devuelve un mercado por id, o (nil, nil) si no existe.
func (c *Client) GetMarket(ctx context.Context, marketID string) (*domain.Market, error) {
	u := fmt.Sprintf("%s/market/%s", c.baseURL, url.PathEscape(marketID))

	var raw rawMarket
	if err := c.pipeline.Get(ctx, u, &raw); err != nil {
		if venue.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("manifold.GetMarket %s: %w", marketID, err)
	}

	m := mapMarket(raw)
	return &m, nil
}

// PlaceOrder envía una apuesta en mana. Manifold no soporta ventas directas:
// un SELL se rechaza con Success=false sin tocar la API.
func (c *Client) PlaceOrder(ctx context.Context, order domain.OrderRequest) domain.OrderResponse {
	if order.OrderType == domain.OrderSell {
		return domain.OrderFailure("manifold: selling positions is not supported via bets")
	}

	body := map[string]any{
		"contractId": order.MarketID,
		"amount":     order.Quantity,
		"outcome":    strings.ToUpper(order.Outcome),
	}
	if order.Price != nil {
		body["limitProb"] = *order.Price
	}

	var resp betResult
	if err := c.pipeline.Post(ctx, c.baseURL+"/bet", body, &resp); err != nil {
		slog.Error("manifold bet failed", "contract", order.MarketID, "err", err)
		return domain.OrderFailure(err.Error())
	}

	cost := resp.Amount
	return domain.OrderResponse{
		Success:        true,
		OrderID:        resp.ID,
		FilledQuantity: order.Quantity,
		AveragePrice:   resp.LimitProb,
		TotalCost:      &cost,
		Timestamp:      time.Now().UTC(),
	}
}

// GetUserBalance devuelve el balance en mana del usuario autenticado.
func (c *Client) GetUserBalance(ctx context.Context) (map[string]float64, error) {
	var resp userResponse
	if err := c.pipeline.Get(ctx, c.baseURL+"/me", &resp); err != nil {
		return nil, fmt.Errorf("manifold.GetUserBalance: %w", err)
	}
	return map[string]float64{"MANA": resp.Balance}, nil
}

// GetUserOrders devuelve las apuestas raw del usuario sobre un mercado.
func (c *Client) GetUserOrders(ctx context.Context, marketID string) ([]map[string]any, error) {
	u := c.baseURL + "/bets"
	if marketID != "" {
		u += "?contractId=" + url.QueryEscape(marketID)
	}

	var bets []map[string]any
	if err := c.pipeline.Get(ctx, u, &bets); err != nil {
		return nil, fmt.Errorf("manifold.GetUserOrders: %w", err)
	}
	return bets, nil
}

// Close libera el connection pool del cliente.
func (c *Client) Close() error {
	c.pipeline.Close()
	return nil
}
