package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taworn/setscan/internal/contracts"
)

// Repository persists ledger records in Postgres
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new ledger repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ contracts.LedgerRepository = (*Repository)(nil)

// Create inserts a record unless one already exists for the same symbol
// and calendar day. On conflict it returns the existing record with
// created=false.
func (r *Repository) Create(ctx context.Context, record contracts.LedgerRecord) (contracts.LedgerRecord, bool, error) {
	day := record.EntryDate.Truncate(24 * time.Hour)

	existing, err := r.findByDay(ctx, record.Symbol, day)
	if err != nil {
		return contracts.LedgerRecord{}, false, err
	}
	if existing != nil {
		return *existing, false, nil
	}

	query := `
		INSERT INTO ledger_records (
			id, symbol, entry_date, recommendation_price,
			entry_price, target_price, stop_loss, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.pool.Exec(ctx, query,
		record.ID, record.Symbol, record.EntryDate, record.RecommendationPrice,
		record.EntryPrice, record.TargetPrice, record.StopLoss, record.Status,
	)
	if err != nil {
		return contracts.LedgerRecord{}, false, fmt.Errorf("failed to insert ledger record: %w", err)
	}

	return record, true, nil
}

func (r *Repository) findByDay(ctx context.Context, symbol string, day time.Time) (*contracts.LedgerRecord, error) {
	query := `
		SELECT id, symbol, entry_date, recommendation_price,
		       entry_price, target_price, stop_loss, status,
		       exit_price, exit_date, percent_change
		FROM ledger_records
		WHERE symbol = $1 AND entry_date >= $2 AND entry_date < $3
		LIMIT 1
	`

	record, err := scanRecord(r.pool.QueryRow(ctx, query, symbol, day, day.Add(24*time.Hour)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger record: %w", err)
	}
	return &record, nil
}

// Update persists a record transition
func (r *Repository) Update(ctx context.Context, record contracts.LedgerRecord) error {
	query := `
		UPDATE ledger_records
		SET status = $2, exit_price = $3, exit_date = $4, percent_change = $5
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		record.ID, record.Status, record.ExitPrice, record.ExitDate, record.PercentChange,
	)
	if err != nil {
		return fmt.Errorf("failed to update ledger record: %w", err)
	}
	return nil
}

// ListOpen returns all records still awaiting an outcome
func (r *Repository) ListOpen(ctx context.Context) ([]contracts.LedgerRecord, error) {
	query := `
		SELECT id, symbol, entry_date, recommendation_price,
		       entry_price, target_price, stop_loss, status,
		       exit_price, exit_date, percent_change
		FROM ledger_records
		WHERE status = $1
		ORDER BY entry_date DESC
	`
	return r.list(ctx, query, contracts.StatusOpen)
}

// List returns the most recent records, newest first. limit <= 0 means all.
func (r *Repository) List(ctx context.Context, limit int) ([]contracts.LedgerRecord, error) {
	query := `
		SELECT id, symbol, entry_date, recommendation_price,
		       entry_price, target_price, stop_loss, status,
		       exit_price, exit_date, percent_change
		FROM ledger_records
		ORDER BY entry_date DESC
	`
	if limit > 0 {
		return r.list(ctx, query+" LIMIT $1", limit)
	}
	return r.list(ctx, query)
}

func (r *Repository) list(ctx context.Context, query string, args ...interface{}) ([]contracts.LedgerRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger records: %w", err)
	}
	defer rows.Close()

	records := make([]contracts.LedgerRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Clear removes every record unconditionally
func (r *Repository) Clear(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM ledger_records"); err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}
	return nil
}

// Stats aggregates outcomes across all records
func (r *Repository) Stats(ctx context.Context) (contracts.LedgerStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'OPEN'),
			COUNT(*) FILTER (WHERE status = 'WIN'),
			COUNT(*) FILTER (WHERE status = 'LOSS')
		FROM ledger_records
	`

	var stats contracts.LedgerStats
	err := r.pool.QueryRow(ctx, query).Scan(&stats.Total, &stats.Active, &stats.Wins, &stats.Losses)
	if err != nil {
		return contracts.LedgerStats{}, fmt.Errorf("failed to query ledger stats: %w", err)
	}

	if closed := stats.Wins + stats.Losses; closed > 0 {
		stats.WinRate = float64(stats.Wins) / float64(closed) * 100
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (contracts.LedgerRecord, error) {
	var record contracts.LedgerRecord
	err := row.Scan(
		&record.ID, &record.Symbol, &record.EntryDate, &record.RecommendationPrice,
		&record.EntryPrice, &record.TargetPrice, &record.StopLoss, &record.Status,
		&record.ExitPrice, &record.ExitDate, &record.PercentChange,
	)
	return record, err
}
