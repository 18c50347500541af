package kalshi

import "github.com/alejandrodnm/marketpulse/internal/adapters/venue"

// DTOs raw de la API de Kalshi. La conversión a domain está en mapping.go.

// marketsResponse es la respuesta de GET /markets.
type marketsResponse struct {
	Markets []rawMarket `json:"markets"`
}

// marketEnvelope acepta GET /markets/{ticker} con o sin wrapper "market".
type marketEnvelope struct {
	Market *rawMarket `json:"market"`
	rawMarket
}

// rawMarket es un mercado Kalshi. Los timestamps llegan como Unix (segundos
// o milisegundos según endpoint); FlexTime normaliza ambos.
type rawMarket struct {
	Ticker         string         `json:"ticker"`
	Title          string         `json:"title"`
	Subtitle       string         `json:"subtitle"`
	Category       string         `json:"category"`
	LastPrice      *float64       `json:"last_price"`
	Volume24h      float64        `json:"volume_24h"`
	TotalVolume    float64        `json:"total_volume"`
	OpenInterest   float64        `json:"open_interest"`
	OpenTime       venue.FlexTime `json:"open_time"`
	CloseTime      venue.FlexTime `json:"close_time"`
	ExpirationTime venue.FlexTime `json:"expiration_time"`
	IsOpen         bool           `json:"is_open"`
}

// orderResult es el acknowledgment de POST /orders.
type orderResult struct {
	ID           string   `json:"id"`
	Filled       int      `json:"filled"`
	AveragePrice *float64 `json:"average_price"`
	TotalCost    *float64 `json:"total_cost"`
	Fees         float64  `json:"fees"`
}

// accountResponse es la respuesta de GET /account.
type accountResponse struct {
	Account struct {
		BuyingPower float64 `json:"buying_power"`
		Collateral  float64 `json:"collateral"`
	} `json:"account"`
}

// ordersResponse es la respuesta de GET /orders.
type ordersResponse struct {
	Orders []map[string]any `json:"orders"`
}
