// Package fundamentals caches per-symbol fundamental data, currently the
// dividend yield, refreshed off the scan path.
package fundamentals

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taworn/setscan/internal/contracts"
)

// Store reads and writes cached fundamentals
type Store interface {
	DividendYield(ctx context.Context, symbol string) (float64, error)
	SaveDividendYield(ctx context.Context, symbol string, yield float64) error
}

// Repository persists fundamentals in Postgres
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a fundamentals repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var (
	_ Store                 = (*Repository)(nil)
	_ contracts.YieldSource = (*Repository)(nil)
)

// DividendYield returns the cached yield for a symbol, 0 when unknown
func (r *Repository) DividendYield(ctx context.Context, symbol string) (float64, error) {
	var yield float64
	err := r.pool.QueryRow(ctx,
		"SELECT dividend_yield FROM stock_fundamentals WHERE symbol = $1", symbol,
	).Scan(&yield)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query fundamentals for %s: %w", symbol, err)
	}
	return yield, nil
}

// SaveDividendYield upserts the yield for a symbol
func (r *Repository) SaveDividendYield(ctx context.Context, symbol string, yield float64) error {
	query := `
		INSERT INTO stock_fundamentals (symbol, dividend_yield, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol) DO UPDATE SET
			dividend_yield = EXCLUDED.dividend_yield,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.pool.Exec(ctx, query, symbol, yield, time.Now()); err != nil {
		return fmt.Errorf("failed to save fundamentals for %s: %w", symbol, err)
	}
	return nil
}

// MemoryStore is an in-memory Store for database-less runs and tests
type MemoryStore struct {
	mu     sync.RWMutex
	yields map[string]float64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{yields: make(map[string]float64)}
}

var (
	_ Store                 = (*MemoryStore)(nil)
	_ contracts.YieldSource = (*MemoryStore)(nil)
)

// DividendYield returns the cached yield for a symbol, 0 when unknown
func (m *MemoryStore) DividendYield(_ context.Context, symbol string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.yields[symbol], nil
}

// SaveDividendYield stores the yield for a symbol
func (m *MemoryStore) SaveDividendYield(_ context.Context, symbol string, yield float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.yields[symbol] = yield
	return nil
}
