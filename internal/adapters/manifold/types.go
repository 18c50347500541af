package manifold

import (
	"bytes"
	"encoding/json"

	"github.com/alejandrodnm/marketpulse/internal/adapters/venue"
)

// DTOs raw de la API de Manifold. La conversión a domain está en mapping.go.

// marketList acepta las dos formas de GET /markets: un array pelado
// (API v0 actual) o un objeto {markets: [...]}.
type marketList []rawMarket

func (l *marketList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raw []rawMarket
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*l = raw
		return nil
	}

	var wrapped struct {
		Markets []rawMarket `json:"markets"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Markets
	return nil
}

// rawMarket es un mercado Manifold. createdTime/closeTime llegan como Unix en
// milisegundos; description puede ser string plano o rich-text JSON.
type rawMarket struct {
	ID              string          `json:"id"`
	Question        string          `json:"question"`
	Description     json.RawMessage `json:"description"`
	Text            string          `json:"text"`
	GroupSlugs      []string        `json:"groupSlugs"`
	OutcomeType     string          `json:"outcomeType"`
	Probability     *float64        `json:"probability"`
	Volume24h       float64         `json:"volume24Hours"`
	Volume          float64         `json:"volume"`
	TotalLiquidity  float64         `json:"totalLiquidity"`
	CreatedTime     venue.FlexTime  `json:"createdTime"`
	CloseTime       venue.FlexTime  `json:"closeTime"`
	IsResolved      bool            `json:"isResolved"`
	CreatorUsername string          `json:"creatorUsername"`
	Slug            string          `json:"slug"`
}

// betResult es el acknowledgment de POST /bet.
type betResult struct {
	ID        string   `json:"id"`
	Amount    float64  `json:"amount"`
	LimitProb *float64 `json:"limitProb"`
}

// userResponse es la respuesta de GET /me.
type userResponse struct {
	Balance float64 `json:"balance"`
}
