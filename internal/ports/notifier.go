package ports

import (
	"context"

	"github.com/alejandrodnm/marketpulse/internal/domain"
)

// Notifier presents the results of an aggregation cycle to the operator.
type Notifier interface {
	// Notify renders the merged, volume-sorted market list.
	Notify(ctx context.Context, markets []domain.Market) error

	// NotifyComparison renders a cross-venue comparison for one question.
	// A nil market means that venue had no match above the similarity
	// threshold.
	NotifyComparison(ctx context.Context, question string, matches map[domain.Platform]*domain.Market) error
}
