package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taworn/setscan/internal/contracts"
)

// MemoryRepository is an in-memory LedgerRepository used when the database
// is disabled and in tests. State does not survive a restart.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []contracts.LedgerRecord
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

var _ contracts.LedgerRepository = (*MemoryRepository)(nil)

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Create appends a record unless one exists for the same symbol and day
func (m *MemoryRepository) Create(_ context.Context, record contracts.LedgerRecord) (contracts.LedgerRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.records {
		if existing.Symbol == record.Symbol && sameDay(existing.EntryDate, record.EntryDate) {
			return existing, false, nil
		}
	}

	m.records = append(m.records, record)
	return record, true, nil
}

// Update replaces the record with a matching ID
func (m *MemoryRepository) Update(_ context.Context, record contracts.LedgerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if m.records[i].ID == record.ID {
			m.records[i] = record
			return nil
		}
	}
	return nil
}

// ListOpen returns records still awaiting an outcome, newest first
func (m *MemoryRepository) ListOpen(_ context.Context) ([]contracts.LedgerRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	open := make([]contracts.LedgerRecord, 0)
	for _, record := range m.records {
		if record.Status == contracts.StatusOpen {
			open = append(open, record)
		}
	}
	sortNewestFirst(open)
	return open, nil
}

// List returns the most recent records, newest first. limit <= 0 means all.
func (m *MemoryRepository) List(_ context.Context, limit int) ([]contracts.LedgerRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]contracts.LedgerRecord, len(m.records))
	copy(all, m.records)
	sortNewestFirst(all)

	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// Clear removes every record
func (m *MemoryRepository) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	return nil
}

// Stats aggregates outcomes across all records
func (m *MemoryRepository) Stats(_ context.Context) (contracts.LedgerStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats contracts.LedgerStats
	for _, record := range m.records {
		stats.Total++
		switch record.Status {
		case contracts.StatusOpen:
			stats.Active++
		case contracts.StatusWin:
			stats.Wins++
		case contracts.StatusLoss:
			stats.Losses++
		}
	}
	if closed := stats.Wins + stats.Losses; closed > 0 {
		stats.WinRate = float64(stats.Wins) / float64(closed) * 100
	}
	return stats, nil
}

func sortNewestFirst(records []contracts.LedgerRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].EntryDate.After(records[j].EntryDate)
	})
}
