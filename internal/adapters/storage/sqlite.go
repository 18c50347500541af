package storage

// sqlite.go — almacenamiento eficiente y sin ruido.
//
// Estrategia:
//   - `cycles`: resumen ligero por ciclo de agregación. Siempre 1 fila.
//   - `markets`: UNA fila por (platform, market_id) con UPSERT. first_seen
//     se conserva, last_seen se actualiza.
//   - `price_history`: una fila por mercado y ciclo SOLO si el precio se
//     movió (> 0.5% relativo) o cambió el estado. En un ciclo normal la
//     mayoría de mercados no se mueve → reducción grande de escrituras.
//   - Prune automático al arrancar: cycles > 30d, history > 14d, mercados
//     no vistos en 14d.

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alejandrodnm/marketpulse/internal/domain"
	"github.com/alejandrodnm/marketpulse/internal/ports"
)

const schema = `
-- Resumen ligero por ciclo de agregación
CREATE TABLE IF NOT EXISTS cycles (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    captured_at DATETIME NOT NULL,
    total       INTEGER  NOT NULL DEFAULT 0,
    open        INTEGER  NOT NULL DEFAULT 0,
    top_volume  REAL     NOT NULL DEFAULT 0
);

-- Una fila por mercado y plataforma, sin duplicados
CREATE TABLE IF NOT EXISTS markets (
    platform     TEXT NOT NULL,
    market_id    TEXT NOT NULL,
    question     TEXT,
    category     TEXT NOT NULL DEFAULT '',
    market_type  TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL DEFAULT '',
    price        REAL,
    probability  REAL,
    volume_24h   REAL NOT NULL DEFAULT 0,
    total_volume REAL NOT NULL DEFAULT 0,
    liquidity    REAL NOT NULL DEFAULT 0,
    url          TEXT,
    close_time   DATETIME,
    first_seen   DATETIME NOT NULL,
    last_seen    DATETIME NOT NULL,
    PRIMARY KEY (platform, market_id)
);

-- Serie temporal de precios, solo cuando hay movimiento
CREATE TABLE IF NOT EXISTS price_history (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    platform    TEXT     NOT NULL,
    market_id   TEXT     NOT NULL,
    captured_at DATETIME NOT NULL,
    price       REAL     NOT NULL DEFAULT 0,
    probability REAL     NOT NULL DEFAULT 0,
    volume_24h  REAL     NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_cycles_at      ON cycles(captured_at DESC);
CREATE INDEX IF NOT EXISTS idx_markets_last   ON markets(last_seen DESC);
CREATE INDEX IF NOT EXISTS idx_markets_cat    ON markets(category);
CREATE INDEX IF NOT EXISTS idx_history_market ON price_history(platform, market_id, captured_at);
`

const (
	retentionCycles  = 30 * 24 * time.Hour // ciclos: 30 días
	retentionMarkets = 14 * 24 * time.Hour // mercados y puntos de precio: 14 días
	priceChangePct   = 0.005               // 0.5% de movimiento → nuevo punto de historia
)

// cachedState es el snapshot del último estado guardado de un mercado.
type cachedState struct {
	price  float64
	status domain.MarketStatus
}

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db    *sql.DB
	cache map[string]cachedState // platform|market_id → estado guardado
	mu    sync.Mutex
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema, limpia datos antiguos y precarga la cache.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{
		db:    db,
		cache: make(map[string]cachedState),
	}
	s.pruneOld(context.Background())
	s.warmCache(context.Background())
	return s, nil
}

// SaveSnapshot persiste el resumen del ciclo, hace upsert de cada mercado y
// añade puntos de historia para los que se movieron desde el último ciclo.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, markets []domain.Market) error {
	if len(markets) == 0 {
		return nil
	}

	now := time.Now().UTC()

	open, topVolume := snapshotSummary(markets)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO cycles (captured_at, total, open, top_volume) VALUES (?, ?, ?, ?)`,
		now, len(markets), open, topVolume,
	); err != nil {
		return fmt.Errorf("storage.SaveSnapshot: insert cycle: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveSnapshot: begin tx: %w", err)
	}
	defer tx.Rollback()

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO markets
			(platform, market_id, question, category, market_type, status,
			 price, probability, volume_24h, total_volume, liquidity, url,
			 close_time, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(platform, market_id) DO UPDATE SET
			question     = excluded.question,
			category     = excluded.category,
			market_type  = excluded.market_type,
			status       = excluded.status,
			price        = excluded.price,
			probability  = excluded.probability,
			volume_24h   = excluded.volume_24h,
			total_volume = excluded.total_volume,
			liquidity    = excluded.liquidity,
			url          = excluded.url,
			close_time   = excluded.close_time,
			last_seen    = excluded.last_seen
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveSnapshot: prepare upsert: %w", err)
	}
	defer upsert.Close()

	point, err := tx.PrepareContext(ctx, `
		INSERT INTO price_history (platform, market_id, captured_at, price, probability, volume_24h)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveSnapshot: prepare history: %w", err)
	}
	defer point.Close()

	moved := s.filterMoved(markets)

	for _, m := range markets {
		var closeTime *time.Time
		if !m.CloseTime.IsZero() {
			t := m.CloseTime.UTC()
			closeTime = &t
		}

		if _, err := upsert.ExecContext(ctx,
			string(m.Platform),
			m.ID,
			m.Question,
			m.Category,
			string(m.MarketType),
			string(m.Status),
			m.CurrentPrice,
			m.Probability,
			m.Volume24h,
			m.TotalVolume,
			m.Liquidity,
			m.URL,
			closeTime,
			now, // first_seen: ignorado en ON CONFLICT (no se sobreescribe)
			now, // last_seen
		); err != nil {
			return fmt.Errorf("storage.SaveSnapshot: upsert %s/%s: %w", m.Platform, m.ID, err)
		}

		if !moved[marketKey(m.Platform, m.ID)] {
			continue
		}
		if _, err := point.ExecContext(ctx,
			string(m.Platform), m.ID, now,
			floatOrZero(m.CurrentPrice), floatOrZero(m.Probability), m.Volume24h,
		); err != nil {
			return fmt.Errorf("storage.SaveSnapshot: history %s/%s: %w", m.Platform, m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveSnapshot: commit: %w", err)
	}
	return nil
}

// GetMarketHistory devuelve los puntos de precio de un mercado en el rango
// dado, ordenados del más antiguo al más reciente.
func (s *SQLiteStorage) GetMarketHistory(ctx context.Context, platform domain.Platform, marketID string, from, to time.Time) ([]ports.PricePoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT captured_at, price, probability, volume_24h
		FROM price_history
		WHERE platform = ? AND market_id = ? AND captured_at BETWEEN ? AND ?
		ORDER BY captured_at ASC
	`, string(platform), marketID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.GetMarketHistory: query: %w", err)
	}
	defer rows.Close()

	var points []ports.PricePoint
	for rows.Next() {
		var p ports.PricePoint
		if err := rows.Scan(&p.Time, &p.Price, &p.Probability, &p.Volume24h); err != nil {
			return nil, fmt.Errorf("storage.GetMarketHistory: scan row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

// filterMoved marca los mercados cuyo precio o estado cambió desde el último
// estado en caché, y actualiza la caché con el nuevo estado.
func (s *SQLiteStorage) filterMoved(markets []domain.Market) map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	moved := make(map[string]bool, len(markets))
	for _, m := range markets {
		key := marketKey(m.Platform, m.ID)
		price := floatOrZero(m.CurrentPrice)

		if prev, ok := s.cache[key]; ok {
			unchanged := prev.status == m.Status &&
				relChange(prev.price, price) < priceChangePct
			if unchanged {
				continue
			}
		}

		moved[key] = true
		s.cache[key] = cachedState{price: price, status: m.Status}
	}
	return moved
}

// pruneOld elimina datos antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoffCycles := time.Now().UTC().Add(-retentionCycles)
	cutoffMarkets := time.Now().UTC().Add(-retentionMarkets)
	s.db.ExecContext(ctx, `DELETE FROM cycles WHERE captured_at < ?`, cutoffCycles)
	s.db.ExecContext(ctx, `DELETE FROM markets WHERE last_seen < ?`, cutoffMarkets)
	s.db.ExecContext(ctx, `DELETE FROM price_history WHERE captured_at < ?`, cutoffMarkets)
}

// warmCache precarga la caché desde la DB al arrancar, evitando puntos de
// historia redundantes en el primer ciclo tras un reinicio.
func (s *SQLiteStorage) warmCache(ctx context.Context) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, market_id, COALESCE(price, 0), status FROM markets`,
	)
	if err != nil {
		return
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for rows.Next() {
		var platform, marketID, status string
		var price float64
		if rows.Scan(&platform, &marketID, &price, &status) == nil {
			key := marketKey(domain.Platform(platform), marketID)
			s.cache[key] = cachedState{price: price, status: domain.MarketStatus(status)}
		}
	}
}

// marketKey construye la clave de caché de un mercado.
func marketKey(platform domain.Platform, marketID string) string {
	return string(platform) + "|" + marketID
}

// snapshotSummary cuenta mercados abiertos y extrae el mayor volumen 24h.
func snapshotSummary(markets []domain.Market) (open int, topVolume float64) {
	for _, m := range markets {
		if m.Status == domain.StatusOpen {
			open++
		}
		if m.Volume24h > topVolume {
			topVolume = m.Volume24h
		}
	}
	return
}

// floatOrZero desreferencia un *float64 opcional.
func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// relChange devuelve el cambio relativo entre dos valores (0.0 – ∞).
func relChange(old, new float64) float64 {
	if old == 0 {
		if new == 0 {
			return 0
		}
		return 1.0 // forzar escritura si antes era 0
	}
	return math.Abs(new-old) / math.Abs(old)
}
