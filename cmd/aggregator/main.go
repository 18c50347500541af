package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/marketpulse/config"
	"github.com/alejandrodnm/marketpulse/internal/adapters/notify"
	"github.com/alejandrodnm/marketpulse/internal/adapters/storage"
	"github.com/alejandrodnm/marketpulse/internal/aggregator"
	"github.com/alejandrodnm/marketpulse/internal/domain"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional, env-only without it)")
	once := flag.Bool("once", false, "run one aggregation cycle and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full table (default: compact 1-line)")
	compare := flag.String("compare", "", "find the given question across all venues and exit")
	history := flag.String("history", "", "print stored price history for a market id and exit")
	venueName := flag.String("venue", "polymarket", "venue for -history: polymarket|kalshi|manifold")
	category := flag.String("category", "", "filter markets by category")
	limit := flag.Int("limit", 0, "markets per venue (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	if *limit <= 0 {
		*limit = cfg.Aggregator.LimitPerVenue
	}

	slog.Info("marketpulse starting",
		"config", *configPath,
		"interval", cfg.ScanInterval(),
		"once", *once,
		"category", *category,
		"limit", *limit,
	)

	agg := aggregator.New(cfg)
	defer agg.Cleanup()

	notifier := notify.NewConsole(*table)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *compare != "" {
		matches := agg.CompareMarket(ctx, *compare)
		if err := notifier.NotifyComparison(ctx, *compare, matches); err != nil {
			slog.Error("comparison output failed", "err", err)
			os.Exit(1)
		}
		return
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	if *history != "" {
		printHistory(ctx, store, domain.Platform(*venueName), *history)
		return
	}

	runCycle := func() {
		markets := agg.GetAllMarkets(ctx, *category, *limit)

		if err := store.SaveSnapshot(ctx, markets); err != nil {
			slog.Error("snapshot persist failed", "err", err)
		}
		if err := notifier.Notify(ctx, markets); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}

	runCycle()
	if *once {
		slog.Info("marketpulse stopped cleanly")
		return
	}

	ticker := time.NewTicker(cfg.ScanInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("marketpulse stopped cleanly")
			return
		case <-ticker.C:
			runCycle()
		}
	}
}

// printHistory imprime los puntos de precio guardados de los últimos 14 días.
func printHistory(ctx context.Context, store *storage.SQLiteStorage, platform domain.Platform, marketID string) {
	to := time.Now().UTC()
	from := to.Add(-14 * 24 * time.Hour)

	points, err := store.GetMarketHistory(ctx, platform, marketID, from, to)
	if err != nil {
		slog.Error("history query failed", "platform", platform, "market", marketID, "err", err)
		os.Exit(1)
	}
	if len(points) == 0 {
		fmt.Printf("no stored history for %s/%s\n", platform, marketID)
		return
	}

	fmt.Printf("history %s/%s (%d points)\n", platform, marketID, len(points))
	for _, p := range points {
		fmt.Printf("  %s  price %.4f  prob %.4f  vol24h %.0f\n",
			p.Time.Format(time.RFC3339), p.Price, p.Probability, p.Volume24h)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
