package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/marketpulse/internal/adapters/storage"
	"github.com/alejandrodnm/marketpulse/internal/domain"
)

func makeMarket(id string, price float64, volume float64) domain.Market {
	p := price
	prob := price
	return domain.Market{
		ID:           id,
		Platform:     domain.PlatformPolymarket,
		Question:     "Will X happen?",
		Category:     "crypto",
		MarketType:   domain.MarketBinary,
		Outcomes:     []string{"Yes", "No"},
		CurrentPrice: &p,
		Probability:  &prob,
		Volume24h:    volume,
		Status:       domain.StatusOpen,
		LastUpdated:  time.Now().UTC(),
	}
}

func historyRange() (time.Time, time.Time) {
	return time.Now().UTC().Add(-time.Minute), time.Now().UTC().Add(time.Minute)
}

func TestSQLiteStorage_SaveAndGetHistory(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	markets := []domain.Market{
		makeMarket("0xaaa", 0.67, 125000),
		makeMarket("0xbbb", 0.45, 85000),
	}

	err = db.SaveSnapshot(context.Background(), markets)
	require.NoError(t, err)

	from, to := historyRange()
	points, err := db.GetMarketHistory(context.Background(), domain.PlatformPolymarket, "0xaaa", from, to)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.InDelta(t, 0.67, points[0].Price, 0.001)
	assert.InDelta(t, 125000, points[0].Volume24h, 0.001)
}

func TestSQLiteStorage_SaveEmptySlice(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	err = db.SaveSnapshot(context.Background(), nil)
	assert.NoError(t, err)
}

func TestSQLiteStorage_UnmovedPriceAddsNoPoint(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	require.NoError(t, db.SaveSnapshot(ctx, []domain.Market{makeMarket("0x001", 0.50, 1000)}))
	// Mismo precio: upsert sí, punto de historia no.
	require.NoError(t, db.SaveSnapshot(ctx, []domain.Market{makeMarket("0x001", 0.50, 1000)}))

	from, to := historyRange()
	points, err := db.GetMarketHistory(ctx, domain.PlatformPolymarket, "0x001", from, to)
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestSQLiteStorage_MovedPriceAddsPoint(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	require.NoError(t, db.SaveSnapshot(ctx, []domain.Market{makeMarket("0x001", 0.50, 1000)}))
	require.NoError(t, db.SaveSnapshot(ctx, []domain.Market{makeMarket("0x001", 0.60, 1500)}))

	from, to := historyRange()
	points, err := db.GetMarketHistory(ctx, domain.PlatformPolymarket, "0x001", from, to)
	require.NoError(t, err)
	require.Len(t, points, 2)
	// Del más antiguo al más reciente.
	assert.InDelta(t, 0.50, points[0].Price, 0.001)
	assert.InDelta(t, 0.60, points[1].Price, 0.001)
}

func TestSQLiteStorage_HistoryScopedToMarket(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	other := makeMarket("k-1", 0.3, 500)
	other.Platform = domain.PlatformKalshi

	require.NoError(t, db.SaveSnapshot(ctx, []domain.Market{makeMarket("0x001", 0.5, 1000), other}))

	from, to := historyRange()
	points, err := db.GetMarketHistory(ctx, domain.PlatformKalshi, "k-1", from, to)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.InDelta(t, 0.3, points[0].Price, 0.001)
}

func TestSQLiteStorage_EmptyRange(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	points, err := db.GetMarketHistory(context.Background(), domain.PlatformManifold, "nope",
		time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestSQLiteStorage_NilPriceStored(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	m := makeMarket("0xnil", 0, 100)
	m.CurrentPrice = nil
	m.Probability = nil

	err = db.SaveSnapshot(context.Background(), []domain.Market{m})
	assert.NoError(t, err)
}
