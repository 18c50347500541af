package polymarket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/marketpulse/internal/domain"
)

const sampleMarket = `{
	"id": "0xc0ffee",
	"question": "Will Bitcoin reach $100,000 by end of 2025?",
	"description": "Binary market on BTC price target",
	"category": "crypto",
	"type": "BINARY",
	"outcomes": ["Yes", "No"],
	"price": 0.67,
	"probability": 0.65,
	"volume24Hours": 125000,
	"volume": 2500000,
	"liquidity": 500000,
	"startDate": "2024-01-01T00:00:00Z",
	"endDate": "2025-12-31T23:59:59Z",
	"isActive": true,
	"slug": "btc-100k"
}`

func TestMapMarket_FullRecord(t *testing.T) {
	var r rawMarket
	require.NoError(t, json.Unmarshal([]byte(sampleMarket), &r))

	m := mapMarket(r)

	assert.Equal(t, "0xc0ffee", m.ID)
	assert.Equal(t, domain.PlatformPolymarket, m.Platform)
	assert.Equal(t, "Will Bitcoin reach $100,000 by end of 2025?", m.Question)
	assert.Equal(t, "crypto", m.Category)
	assert.Equal(t, domain.MarketBinary, m.MarketType)
	assert.Equal(t, []string{"Yes", "No"}, m.Outcomes)

	// price y probability divergen legítimamente en Polymarket — se preservan.
	require.NotNil(t, m.CurrentPrice)
	require.NotNil(t, m.Probability)
	assert.Equal(t, 0.67, *m.CurrentPrice)
	assert.Equal(t, 0.65, *m.Probability)

	assert.Equal(t, 125000.0, m.Volume24h)
	assert.Equal(t, 2500000.0, m.TotalVolume)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), m.OpenTime)
	assert.Equal(t, domain.StatusOpen, m.Status)
	assert.Equal(t, "https://polymarket.com/market/btc-100k", m.URL)
	assert.False(t, m.LastUpdated.IsZero(), "LastUpdated lo estampa el adapter")
}

func TestMapMarket_DefaultsForMissingFields(t *testing.T) {
	m := mapMarket(rawMarket{ID: "bare-1"})

	assert.Equal(t, "bare-1", m.ID)
	assert.Equal(t, []string{"Yes", "No"}, m.Outcomes)
	assert.Equal(t, domain.MarketBinary, m.MarketType)
	assert.Nil(t, m.CurrentPrice, "sin trades todavía → precio null")
	assert.Nil(t, m.Probability)
	assert.Equal(t, 0.0, m.Volume24h)
	assert.Equal(t, domain.StatusClosed, m.Status)
	assert.Equal(t, "https://polymarket.com/market/bare-1", m.URL, "slug vacío → fallback al ID")
	assert.True(t, m.CloseTime.IsZero())
}

func TestMapMarket_PopulatesMissingTwin(t *testing.T) {
	price := 0.42

	m := mapMarket(rawMarket{ID: "m1", Price: &price})
	require.NotNil(t, m.Probability)
	assert.Equal(t, 0.42, *m.Probability)

	m = mapMarket(rawMarket{ID: "m2", Probability: &price})
	require.NotNil(t, m.CurrentPrice)
	assert.Equal(t, 0.42, *m.CurrentPrice)

	// Punteros independientes: mutar uno no toca el otro.
	*m.CurrentPrice = 0.99
	assert.Equal(t, 0.42, *m.Probability)
}

func TestMapMarketType(t *testing.T) {
	assert.Equal(t, domain.MarketBinary, mapMarketType("BINARY"))
	assert.Equal(t, domain.MarketBinary, mapMarketType(""))
	assert.Equal(t, domain.MarketMultiChoice, mapMarketType("MULTIPLE_CHOICE"))
	assert.Equal(t, domain.MarketMultiChoice, mapMarketType("categorical"))
	assert.Equal(t, domain.MarketScalar, mapMarketType("SCALAR"))
	assert.Equal(t, domain.MarketScalar, mapMarketType("pseudo_numeric"))
}
