package mockvenue

// client.go — venue determinista para desarrollo sin credenciales.
//
// Cuando un venue real no tiene API key configurada, el agregador usa este
// cliente: el catálogo es fijo y las órdenes siempre se "ejecutan" en local.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/marketpulse/internal/domain"
)

// mockFeeRate es la comisión simulada sobre el coste de cada orden.
const mockFeeRate = 0.01

// Client implementa ports.VenueClient con datos sintéticos.
type Client struct {
	platform domain.Platform
	markets  []domain.Market
}

// New crea un cliente mock que se presenta como el venue indicado.
func New(platform domain.Platform) *Client {
	return &Client{
		platform: platform,
		markets:  catalog(platform),
	}
}

// catalog devuelve el set fijo de mercados del mock, con IDs y URLs
// namespaced por plataforma para que no colisionen entre venues.
func catalog(platform domain.Platform) []domain.Market {
	now := time.Now().UTC()
	entries := []struct {
		slug     string
		question string
		category string
		price    float64
		volume   float64
	}{
		{"btc_100k", "Will Bitcoin reach $100,000 by end of 2025?", "crypto", 0.67, 125000},
		{"eth_5k", "Will Ethereum reach $5,000 by end of 2025?", "crypto", 0.45, 85000},
		{"election_2024", "Will the incumbent party win the 2024 election?", "politics", 0.52, 450000},
		{"ai_agi_2030", "Will AGI be achieved by 2030?", "technology", 0.23, 95000},
		{"climate_2c", "Will global warming exceed 2C by 2050?", "climate", 0.78, 65000},
	}

	markets := make([]domain.Market, 0, len(entries))
	for _, e := range entries {
		price := e.price
		prob := e.price
		markets = append(markets, domain.Market{
			ID:           fmt.Sprintf("%s_%s", platform, e.slug),
			Platform:     platform,
			Question:     e.question,
			Description:  "Mock market for development and testing",
			Category:     e.category,
			MarketType:   domain.MarketBinary,
			Outcomes:     []string{"Yes", "No"},
			CurrentPrice: &price,
			Probability:  &prob,
			Volume24h:    e.volume,
			TotalVolume:  e.volume * 10,
			Liquidity:    e.volume / 2,
			OpenTime:     now.AddDate(0, -1, 0),
			CloseTime:    now.AddDate(0, 6, 0),
			Status:       domain.StatusOpen,
			URL:          fmt.Sprintf("https://%s.com/markets/%s", platform, e.slug),
			LastUpdated:  now,
		})
	}
	return markets
}

// GetMarkets devuelve el catálogo, filtrado por categoría y recortado a limit.
func (c *Client) GetMarkets(ctx context.Context, category string, limit int) ([]domain.Market, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make([]domain.Market, 0, len(c.markets))
	for _, m := range c.markets {
		if category != "" && !strings.EqualFold(m.Category, category) {
			continue
		}
		result = append(result, m)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// GetMarket devuelve un mercado del catálogo, o (nil, nil) si no existe.
func (c *Client) GetMarket(ctx context.Context, marketID string) (*domain.Market, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, m := range c.markets {
		if m.ID == marketID {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

// PlaceOrder simula una ejecución completa al precio pedido (0.5 si no hay
// precio limit).
func (c *Client) PlaceOrder(ctx context.Context, order domain.OrderRequest) domain.OrderResponse {
	if err := ctx.Err(); err != nil {
		return domain.OrderFailure(err.Error())
	}

	avg := 0.5
	if order.Price != nil {
		avg = *order.Price
	}
	cost := avg * float64(order.Quantity)

	return domain.OrderResponse{
		Success:        true,
		OrderID:        uuid.New().String(),
		FilledQuantity: order.Quantity,
		AveragePrice:   &avg,
		TotalCost:      &cost,
		Fees:           cost * mockFeeRate,
		Timestamp:      time.Now().UTC(),
	}
}

// GetUserBalance devuelve saldos fijos de desarrollo.
func (c *Client) GetUserBalance(ctx context.Context) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return map[string]float64{"USD": 10000, "MANA": 5000}, nil
}

// GetUserOrders devuelve vacío: el mock no persiste órdenes.
func (c *Client) GetUserOrders(ctx context.Context, marketID string) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []map[string]any{}, nil
}

// Close no tiene recursos que liberar.
func (c *Client) Close() error {
	return nil
}
