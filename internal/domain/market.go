package domain

import "time"

// Platform identifica el venue de origen de un mercado.
type Platform string

const (
	PlatformPolymarket Platform = "polymarket"
	PlatformKalshi     Platform = "kalshi"
	PlatformManifold   Platform = "manifold"
)

// Platforms devuelve los venues soportados en orden canónico.
// El orden importa: define el tiebreak determinista al mergear resultados.
func Platforms() []Platform {
	return []Platform{PlatformPolymarket, PlatformKalshi, PlatformManifold}
}

// MarketType clasifica la estructura de outcomes de un mercado.
type MarketType string

const (
	MarketBinary      MarketType = "binary"
	MarketMultiChoice MarketType = "multi_choice"
	MarketScalar      MarketType = "scalar"
)

// MarketStatus es el estado de trading de un mercado.
type MarketStatus string

const (
	StatusOpen     MarketStatus = "open"
	StatusClosed   MarketStatus = "closed"
	StatusResolved MarketStatus = "resolved"
)

// Market es el registro unificado que devuelve cada adapter de venue.
// El ID es único dentro de su plataforma, no entre plataformas.
type Market struct {
	ID          string
	Platform    Platform
	Question    string
	Description string
	Category    string
	MarketType  MarketType
	Outcomes    []string

	// CurrentPrice y Probability son la probabilidad YES en [0,1].
	// Algunos venues solo exponen uno de los dos (el adapter rellena ambos),
	// pero en Polymarket pueden divergir legítimamente (precio con spread vs
	// probabilidad resuelta) — nunca asumir que son iguales.
	CurrentPrice *float64
	Probability  *float64

	Volume24h   float64
	TotalVolume float64
	Liquidity   float64

	OpenTime       time.Time
	CloseTime      time.Time
	ResolutionDate time.Time

	Status      MarketStatus
	URL         string
	LastUpdated time.Time // lo estampa el adapter al hacer fetch, no el venue
}

// IsOpen devuelve true si el mercado sigue abierto a trading.
func (m Market) IsOpen() bool {
	return m.Status == StatusOpen
}

// DisplayPrice devuelve el mejor valor disponible para mostrar:
// CurrentPrice si existe, Probability como fallback, 0 si no hay ninguno.
func (m Market) DisplayPrice() float64 {
	if m.CurrentPrice != nil {
		return *m.CurrentPrice
	}
	if m.Probability != nil {
		return *m.Probability
	}
	return 0
}

// TruncateQuestion devuelve la pregunta truncada a maxLen caracteres.
// Si la pregunta está vacía usa el ID del mercado como fallback.
func TruncateQuestion(question, id string, maxLen int) string {
	q := question
	if q == "" {
		if len(id) > 20 {
			q = id[:20] + "..."
		} else {
			q = id
		}
	}
	if len(q) > maxLen {
		q = q[:maxLen-3] + "..."
	}
	return q
}
