// Package alerts manages user price alerts checked during each scan cycle.
package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taworn/setscan/internal/contracts"
)

// Repository persists price alerts in Postgres
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new alert repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ contracts.AlertRepository = (*Repository)(nil)

// Upsert saves an alert, replacing any existing one for the symbol
func (r *Repository) Upsert(ctx context.Context, alert contracts.Alert) error {
	query := `
		INSERT INTO price_alerts (symbol, target_price, condition, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (symbol) DO UPDATE SET
			target_price = EXCLUDED.target_price,
			condition = EXCLUDED.condition,
			is_active = EXCLUDED.is_active,
			created_at = EXCLUDED.created_at
	`
	_, err := r.pool.Exec(ctx, query,
		alert.Symbol, alert.TargetPrice, alert.Condition, alert.IsActive, alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert alert: %w", err)
	}
	return nil
}

// Deactivate marks an alert as no longer active, keeping it for history
func (r *Repository) Deactivate(ctx context.Context, symbol string) error {
	_, err := r.pool.Exec(ctx, "UPDATE price_alerts SET is_active = false WHERE symbol = $1", symbol)
	if err != nil {
		return fmt.Errorf("failed to deactivate alert: %w", err)
	}
	return nil
}

// Delete removes an alert entirely
func (r *Repository) Delete(ctx context.Context, symbol string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM price_alerts WHERE symbol = $1", symbol)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	return nil
}

// Get returns the alert for a symbol, nil when none exists
func (r *Repository) Get(ctx context.Context, symbol string) (*contracts.Alert, error) {
	query := `
		SELECT symbol, target_price, condition, is_active, created_at
		FROM price_alerts WHERE symbol = $1
	`

	var alert contracts.Alert
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&alert.Symbol, &alert.TargetPrice, &alert.Condition, &alert.IsActive, &alert.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query alert: %w", err)
	}
	return &alert, nil
}

// ListActive returns all alerts still waiting to trigger
func (r *Repository) ListActive(ctx context.Context) ([]contracts.Alert, error) {
	query := `
		SELECT symbol, target_price, condition, is_active, created_at
		FROM price_alerts WHERE is_active = true
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]contracts.Alert, 0)
	for rows.Next() {
		var alert contracts.Alert
		if err := rows.Scan(&alert.Symbol, &alert.TargetPrice, &alert.Condition, &alert.IsActive, &alert.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}
