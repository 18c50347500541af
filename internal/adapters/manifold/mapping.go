package manifold

import (
	"encoding/json"
	"time"

	"github.com/alejandrodnm/marketpulse/internal/domain"
)

// uncategorized es el tag para mercados sin grupo en Manifold.
const uncategorized = "uncategorized"

// mapMarkets convierte los DTOs de Manifold a domain.Market.
func mapMarkets(raw []rawMarket) []domain.Market {
	markets := make([]domain.Market, 0, len(raw))
	for _, r := range raw {
		markets = append(markets, mapMarket(r))
	}
	return markets
}

// mapMarket convierte un rawMarket a domain.Market. Manifold expone una sola
// probability para mercados binarios, así que price y probability llevan el
// mismo valor.
func mapMarket(r rawMarket) domain.Market {
	category := uncategorized
	if len(r.GroupSlugs) > 0 && r.GroupSlugs[0] != "" {
		category = r.GroupSlugs[0]
	}

	status := domain.StatusOpen
	if r.IsResolved {
		status = domain.StatusResolved
	}

	m := domain.Market{
		ID:          r.ID,
		Platform:    domain.PlatformManifold,
		Question:    r.Question,
		Description: descriptionText(r),
		Category:    category,
		MarketType:  mapMarketType(r.OutcomeType),
		Outcomes:    outcomesFor(r.OutcomeType),
		Volume24h:   r.Volume24h,
		TotalVolume: r.Volume,
		Liquidity:   r.TotalLiquidity,
		OpenTime:    r.CreatedTime.Time,
		CloseTime:   r.CloseTime.Time,
		Status:      status,
		URL:         "https://manifold.markets/" + r.CreatorUsername + "/" + r.Slug,
		LastUpdated: time.Now().UTC(),
	}

	if r.Probability != nil {
		price := *r.Probability
		prob := *r.Probability
		m.CurrentPrice = &price
		m.Probability = &prob
	}

	return m
}

// outcomesFor deriva el set de outcomes del tag outcomeType de Manifold.
func outcomesFor(outcomeType string) []string {
	switch outcomeType {
	case "FREE_RESPONSE":
		return []string{"Free Response"}
	case "MULTIPLE_CHOICE":
		return []string{"Multiple Choice"}
	default: // BINARY y tipos desconocidos
		return []string{"Yes", "No"}
	}
}

// mapMarketType normaliza el outcomeType al enum unificado.
func mapMarketType(outcomeType string) domain.MarketType {
	switch outcomeType {
	case "MULTIPLE_CHOICE", "FREE_RESPONSE":
		return domain.MarketMultiChoice
	case "PSEUDO_NUMERIC", "NUMBER", "STONK":
		return domain.MarketScalar
	default:
		return domain.MarketBinary
	}
}

// descriptionText extrae la descripción: el campo text del detalle si existe,
// o description cuando es un string JSON plano. El rich-text de Manifold
// (un objeto) se ignora — default vacío antes que parse failure.
func descriptionText(r rawMarket) string {
	if r.Text != "" {
		return r.Text
	}
	var s string
	if err := json.Unmarshal(r.Description, &s); err == nil {
		return s
	}
	return ""
}
