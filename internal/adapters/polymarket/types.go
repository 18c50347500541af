package polymarket

import "github.com/alejandrodnm/marketpulse/internal/adapters/venue"

// DTOs raw de la API de Polymarket. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// marketsResponse es la respuesta de GET /markets.
type marketsResponse struct {
	Markets []rawMarket `json:"markets"`
}

// marketEnvelope acepta GET /markets/{id} con o sin wrapper "market".
type marketEnvelope struct {
	Market *rawMarket `json:"market"`
	rawMarket
}

// rawMarket es un mercado tal como lo devuelve Polymarket.
type rawMarket struct {
	ID             string         `json:"id"`
	Question       string         `json:"question"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	Type           string         `json:"type"`
	Outcomes       []string       `json:"outcomes"`
	Price          *float64       `json:"price"`
	Probability    *float64       `json:"probability"`
	Volume24h      float64        `json:"volume24Hours"`
	Volume         float64        `json:"volume"`
	Liquidity      float64        `json:"liquidity"`
	StartDate      venue.FlexTime `json:"startDate"`
	EndDate        venue.FlexTime `json:"endDate"`
	ResolutionDate venue.FlexTime `json:"resolutionDate"`
	IsActive       bool           `json:"isActive"`
	Slug           string         `json:"slug"`
}

// orderResult es el acknowledgment de POST /orders.
type orderResult struct {
	OrderID        string   `json:"order_id"`
	FilledQuantity int      `json:"filled_quantity"`
	AveragePrice   *float64 `json:"average_price"`
	TotalCost      *float64 `json:"total_cost"`
	Fees           float64  `json:"fees"`
}

// balanceResponse es la respuesta de GET /account/balance.
type balanceResponse struct {
	Balances map[string]float64 `json:"balances"`
}

// ordersResponse es la respuesta de GET /account/orders.
type ordersResponse struct {
	Orders []map[string]any `json:"orders"`
}
