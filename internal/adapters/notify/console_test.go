package notify_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/marketpulse/internal/adapters/notify"
	"github.com/alejandrodnm/marketpulse/internal/domain"
)

func makeMarket(platform domain.Platform, question string, price, volume float64) domain.Market {
	p := price
	return domain.Market{
		ID:           "mkt-test",
		Platform:     platform,
		Question:     question,
		Category:     "crypto",
		MarketType:   domain.MarketBinary,
		CurrentPrice: &p,
		Volume24h:    volume,
		Status:       domain.StatusOpen,
		LastUpdated:  time.Now(),
	}
}

func TestConsole_Notify_Compact(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	markets := []domain.Market{
		makeMarket(domain.PlatformPolymarket, "Will BTC hit 100k?", 0.67, 125000),
		makeMarket(domain.PlatformKalshi, "Will ETH hit 5k?", 0.45, 85000),
	}

	err := n.Notify(context.Background(), markets)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "2 mkts")
	assert.Contains(t, out, "Will BTC hit 100k?")
	assert.Contains(t, out, "poly:1")
	assert.Contains(t, out, "kalshi:1")
	assert.Contains(t, out, "mani:0")
}

func TestConsole_Notify_Table(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	markets := []domain.Market{
		makeMarket(domain.PlatformManifold, "Will AGI arrive by 2030?", 0.23, 95000),
	}

	err := n.Notify(context.Background(), markets)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Will AGI arrive by 2030?")
	assert.Contains(t, out, "0.23")
	assert.Contains(t, out, "$95000")
}

func TestConsole_Notify_EmptyList(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	err := n.Notify(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no markets found")
}

func TestConsole_Notify_LongQuestionTruncated(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	longQ := strings.Repeat("A", 50)
	err := n.Notify(context.Background(), []domain.Market{
		makeMarket(domain.PlatformPolymarket, longQ, 0.5, 100),
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "...")
}

func TestConsole_NotifyComparison(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	match := makeMarket(domain.PlatformPolymarket, "Will BTC hit 100k?", 0.67, 125000)
	matches := map[domain.Platform]*domain.Market{
		domain.PlatformPolymarket: &match,
		domain.PlatformKalshi:     nil,
		domain.PlatformManifold:   nil,
	}

	err := n.NotifyComparison(context.Background(), "Will BTC hit 100k?", matches)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `compare: "Will BTC hit 100k?"`)
	assert.Contains(t, out, "0.67")
	assert.Contains(t, out, "(no match)")
}
