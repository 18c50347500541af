package ports

import (
	"context"

	"github.com/alejandrodnm/marketpulse/internal/domain"
)

// VenueClient is the capability set shared by every prediction-market venue
// adapter (Polymarket, Kalshi, Manifold) and by the mock stand-in. The
// aggregator only ever talks to this interface.
type VenueClient interface {
	// GetMarkets returns up to limit markets, optionally filtered by category.
	// Venue-side failures surface as an error; the aggregator isolates them so
	// one venue's outage never aborts a multi-venue fetch.
	GetMarkets(ctx context.Context, category string, limit int) ([]domain.Market, error)

	// GetMarket returns the market with the given venue-scoped ID, or
	// (nil, nil) when the venue reports not-found.
	GetMarket(ctx context.Context, marketID string) (*domain.Market, error)

	// PlaceOrder submits a pass-through order to the venue. It never returns
	// an error: any rejection or transport failure is surfaced as
	// Success=false with a populated ErrorMessage.
	PlaceOrder(ctx context.Context, order domain.OrderRequest) domain.OrderResponse

	// GetUserBalance returns the authenticated account's balances by currency.
	GetUserBalance(ctx context.Context) (map[string]float64, error)

	// GetUserOrders returns the account's raw venue orders, optionally
	// filtered by market ID.
	GetUserOrders(ctx context.Context, marketID string) ([]map[string]any, error)

	// Close releases the client's held connection resources. Safe to call
	// more than once.
	Close() error
}
