package kalshi

import (
	"time"

	"github.com/alejandrodnm/marketpulse/internal/domain"
)

// mapMarkets convierte los DTOs de Kalshi a domain.Market.
func mapMarkets(raw []rawMarket) []domain.Market {
	markets := make([]domain.Market, 0, len(raw))
	for _, r := range raw {
		markets = append(markets, mapMarket(r))
	}
	return markets
}

// mapMarket convierte un rawMarket a domain.Market. Kalshi solo expone
// last_price, así que price y probability se rellenan con el mismo valor.
func mapMarket(r rawMarket) domain.Market {
	status := domain.StatusClosed
	if r.IsOpen {
		status = domain.StatusOpen
	}

	m := domain.Market{
		ID:             r.Ticker,
		Platform:       domain.PlatformKalshi,
		Question:       r.Title,
		Description:    r.Subtitle,
		Category:       r.Category,
		MarketType:     domain.MarketBinary, // Kalshi es siempre binario
		Outcomes:       []string{"Yes", "No"},
		Volume24h:      r.Volume24h,
		TotalVolume:    r.TotalVolume,
		Liquidity:      r.OpenInterest,
		OpenTime:       r.OpenTime.Time,
		CloseTime:      r.CloseTime.Time,
		ResolutionDate: r.ExpirationTime.Time,
		Status:         status,
		URL:            "https://kalshi.com/trade/" + r.Ticker,
		LastUpdated:    time.Now().UTC(),
	}

	if r.LastPrice != nil {
		price := *r.LastPrice
		prob := *r.LastPrice
		m.CurrentPrice = &price
		m.Probability = &prob
	}

	return m
}
