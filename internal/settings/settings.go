// Package settings is a small key-value store for operator-managed
// configuration such as the symbol universe and scan overrides.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taworn/setscan/internal/contracts"
)

// Well-known setting keys.
const (
	KeySymbolUniverse = "symbol_universe"
	KeyScanDefaults   = "scan_defaults"
)

// Repository stores settings in Postgres
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a settings repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ contracts.SettingsRepository = (*Repository)(nil)

// Get returns the raw value for a key, nil when unset
func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.pool.QueryRow(ctx, "SELECT value FROM app_settings WHERE key = $1", key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query setting %q: %w", key, err)
	}
	return value, nil
}

// Set stores a value under a key, replacing any previous value
func (r *Repository) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := r.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save setting %q: %w", key, err)
	}
	return nil
}

// MemoryRepository is an in-memory SettingsRepository for database-less
// runs and tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryRepository creates an empty in-memory settings repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: make(map[string][]byte)}
}

var _ contracts.SettingsRepository = (*MemoryRepository)(nil)

// Get returns the raw value for a key, nil when unset
func (m *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

// Set stores a value under a key
func (m *MemoryRepository) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
