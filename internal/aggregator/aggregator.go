package aggregator

// aggregator.go — capa de agregación multi-venue.
//
// Un cliente por plataforma, consultados en paralelo. Un venue caído no
// tumba el ciclo: se loguea y se sigue con el resto. Sin credenciales el
// venue se sirve desde el mock determinista.

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/alejandrodnm/marketpulse/config"
	"github.com/alejandrodnm/marketpulse/internal/adapters/kalshi"
	"github.com/alejandrodnm/marketpulse/internal/adapters/manifold"
	"github.com/alejandrodnm/marketpulse/internal/adapters/mockvenue"
	"github.com/alejandrodnm/marketpulse/internal/adapters/polymarket"
	"github.com/alejandrodnm/marketpulse/internal/domain"
	"github.com/alejandrodnm/marketpulse/internal/ports"
)

// similarityThreshold es el Jaccard mínimo para considerar que dos preguntas
// describen el mismo evento.
const similarityThreshold = 0.7

// defaultCompareLimit es cuántos mercados por venue se escanean al comparar.
const defaultCompareLimit = 100

// Aggregator fan-outs las consultas sobre todos los venues configurados.
type Aggregator struct {
	clients      map[domain.Platform]ports.VenueClient
	compareLimit int
}

// New construye un cliente por plataforma a partir de la configuración.
// Los venues sin credenciales usan el cliente mock.
func New(cfg *config.Config) *Aggregator {
	clients := make(map[domain.Platform]ports.VenueClient, len(domain.Platforms()))
	for _, p := range domain.Platforms() {
		clients[p] = buildClient(p, cfg.Venue(p))
	}

	limit := cfg.Aggregator.CompareFetchLimit
	if limit <= 0 {
		limit = defaultCompareLimit
	}
	return &Aggregator{clients: clients, compareLimit: limit}
}

// NewWithClients inyecta clientes ya construidos. Pensado para tests.
func NewWithClients(clients map[domain.Platform]ports.VenueClient) *Aggregator {
	return &Aggregator{clients: clients, compareLimit: defaultCompareLimit}
}

// buildClient elige el adapter real o el mock según las credenciales.
func buildClient(p domain.Platform, vc config.APIConfig) ports.VenueClient {
	if !vc.HasCredentials() {
		slog.Info("venue sin credenciales, usando mock", "platform", p)
		return mockvenue.New(p)
	}

	switch p {
	case domain.PlatformPolymarket:
		return polymarket.New(vc)
	case domain.PlatformKalshi:
		return kalshi.New(vc)
	case domain.PlatformManifold:
		return manifold.New(vc)
	default:
		return mockvenue.New(p)
	}
}

// GetAllMarkets consulta todos los venues en paralelo y devuelve los mercados
// combinados, ordenados por volumen 24h descendente. Los venues que fallan se
// loguean y se omiten del resultado.
func (a *Aggregator) GetAllMarkets(ctx context.Context, category string, limit int) []domain.Market {
	platforms := domain.Platforms()
	results := make([][]domain.Market, len(platforms))

	var wg sync.WaitGroup
	for i, p := range platforms {
		client, ok := a.clients[p]
		if !ok {
			continue
		}

		wg.Add(1)
		go func(i int, p domain.Platform, client ports.VenueClient) {
			defer wg.Done()

			markets, err := client.GetMarkets(ctx, category, limit)
			if err != nil {
				slog.Error("venue fetch failed", "platform", p, "err", err)
				return
			}
			// El adapter ya estampa la plataforma; reafirmarla protege a los
			// consumidores de un cliente mal inyectado.
			for j := range markets {
				markets[j].Platform = p
			}
			results[i] = markets
		}(i, p, client)
	}
	wg.Wait()

	var merged []domain.Market
	for _, batch := range results {
		merged = append(merged, batch...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Volume24h > merged[j].Volume24h
	})

	slog.Debug("aggregation cycle done", "markets", len(merged), "category", category)
	return merged
}

// GetMarketDetails busca un mercado por ID probando cada venue en orden.
// Devuelve (nil, nil) si ningún venue lo conoce.
func (a *Aggregator) GetMarketDetails(ctx context.Context, marketID string) (*domain.Market, error) {
	var lastErr error
	for _, p := range domain.Platforms() {
		client, ok := a.clients[p]
		if !ok {
			continue
		}

		m, err := client.GetMarket(ctx, marketID)
		if err != nil {
			slog.Warn("venue lookup failed", "platform", p, "market", marketID, "err", err)
			lastErr = err
			continue
		}
		if m != nil {
			return m, nil
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("aggregator.GetMarketDetails: all venues failed: %w", lastErr)
	}
	return nil, nil
}

// CompareMarket busca en cada venue el mercado más parecido a la pregunta
// dada. El mapa resultante siempre contiene una entrada por venue; nil cuando
// ningún mercado supera el umbral de similitud.
func (a *Aggregator) CompareMarket(ctx context.Context, question string) map[domain.Platform]*domain.Market {
	platforms := domain.Platforms()
	matches := make(map[domain.Platform]*domain.Market, len(platforms))
	results := make([]*domain.Market, len(platforms))

	var wg sync.WaitGroup
	for i, p := range platforms {
		client, ok := a.clients[p]
		if !ok {
			continue
		}

		wg.Add(1)
		go func(i int, p domain.Platform, client ports.VenueClient) {
			defer wg.Done()

			markets, err := client.GetMarkets(ctx, "", a.compareLimit)
			if err != nil {
				slog.Error("venue compare fetch failed", "platform", p, "err", err)
				return
			}
			results[i] = bestMatch(question, markets)
		}(i, p, client)
	}
	wg.Wait()

	for i, p := range platforms {
		matches[p] = results[i]
	}
	return matches
}

// bestMatch devuelve el mercado con mayor similitud a la pregunta, o nil si
// ninguno alcanza el umbral.
func bestMatch(question string, markets []domain.Market) *domain.Market {
	var best *domain.Market
	bestScore := similarityThreshold

	for i := range markets {
		score := domain.QuestionSimilarity(question, markets[i].Question)
		if score >= bestScore {
			best = &markets[i]
			bestScore = score
		}
	}
	return best
}

// Cleanup cierra los clientes de todos los venues.
func (a *Aggregator) Cleanup() {
	for p, client := range a.clients {
		if err := client.Close(); err != nil {
			slog.Warn("error closing venue client", "platform", p, "err", err)
		}
	}
}
