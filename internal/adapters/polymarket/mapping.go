package polymarket

import (
	"strings"
	"time"

	"github.com/alejandrodnm/marketpulse/internal/domain"
)

// mapMarkets convierte los DTOs de Polymarket a domain.Market.
func mapMarkets(raw []rawMarket) []domain.Market {
	markets := make([]domain.Market, 0, len(raw))
	for _, r := range raw {
		markets = append(markets, mapMarket(r))
	}
	return markets
}

// mapMarket convierte un rawMarket a domain.Market. Los campos ausentes se
// rellenan con defaults — un registro incompleto no se descarta.
func mapMarket(r rawMarket) domain.Market {
	outcomes := r.Outcomes
	if len(outcomes) == 0 {
		outcomes = []string{"Yes", "No"}
	}

	status := domain.StatusClosed
	if r.IsActive {
		status = domain.StatusOpen
	}

	slug := r.Slug
	if slug == "" {
		slug = r.ID
	}

	m := domain.Market{
		ID:             r.ID,
		Platform:       domain.PlatformPolymarket,
		Question:       r.Question,
		Description:    r.Description,
		Category:       r.Category,
		MarketType:     mapMarketType(r.Type),
		Outcomes:       outcomes,
		CurrentPrice:   copyFloat(r.Price),
		Probability:    copyFloat(r.Probability),
		Volume24h:      r.Volume24h,
		TotalVolume:    r.Volume,
		Liquidity:      r.Liquidity,
		OpenTime:       r.StartDate.Time,
		CloseTime:      r.EndDate.Time,
		ResolutionDate: r.ResolutionDate.Time,
		Status:         status,
		URL:            "https://polymarket.com/market/" + slug,
		LastUpdated:    time.Now().UTC(),
	}

	// Polymarket expone price y probability como campos distintos que pueden
	// divergir (precio con spread vs probabilidad resuelta). Solo cuando falta
	// uno de los dos se rellena con el otro.
	if m.CurrentPrice == nil && m.Probability != nil {
		m.CurrentPrice = copyFloat(m.Probability)
	}
	if m.Probability == nil && m.CurrentPrice != nil {
		m.Probability = copyFloat(m.CurrentPrice)
	}

	return m
}

// mapMarketType normaliza el tag de tipo de Polymarket al enum unificado.
func mapMarketType(s string) domain.MarketType {
	switch strings.ToLower(s) {
	case "multi_choice", "multiple_choice", "categorical", "free_response":
		return domain.MarketMultiChoice
	case "scalar", "numeric", "pseudo_numeric":
		return domain.MarketScalar
	default:
		return domain.MarketBinary
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}
