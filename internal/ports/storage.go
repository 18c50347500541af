package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/marketpulse/internal/domain"
)

// PricePoint is one historical observation of a market's quote.
type PricePoint struct {
	Time        time.Time
	Price       float64
	Probability float64
	Volume24h   float64
}

// Storage persists the merged market snapshots produced by each
// aggregation cycle.
type Storage interface {
	// SaveSnapshot persists one aggregation cycle's merged market list.
	SaveSnapshot(ctx context.Context, markets []domain.Market) error

	// GetMarketHistory returns the stored price points for one market
	// within the given time range, oldest first.
	GetMarketHistory(ctx context.Context, platform domain.Platform, marketID string, from, to time.Time) ([]PricePoint, error)

	// Close closes the underlying database cleanly.
	Close() error
}
