package alerts

import (
	"context"
	"sort"
	"sync"

	"github.com/taworn/setscan/internal/contracts"
)

// MemoryRepository is an in-memory AlertRepository for database-less runs
// and tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	alerts map[string]contracts.Alert
}

// NewMemoryRepository creates an empty in-memory alert repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{alerts: make(map[string]contracts.Alert)}
}

var _ contracts.AlertRepository = (*MemoryRepository)(nil)

// Upsert saves an alert, replacing any existing one for the symbol
func (m *MemoryRepository) Upsert(_ context.Context, alert contracts.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts[alert.Symbol] = alert
	return nil
}

// Deactivate marks an alert as no longer active
func (m *MemoryRepository) Deactivate(_ context.Context, symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if alert, ok := m.alerts[symbol]; ok {
		alert.IsActive = false
		m.alerts[symbol] = alert
	}
	return nil
}

// Delete removes an alert
func (m *MemoryRepository) Delete(_ context.Context, symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.alerts, symbol)
	return nil
}

// Get returns the alert for a symbol, nil when none exists
func (m *MemoryRepository) Get(_ context.Context, symbol string) (*contracts.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if alert, ok := m.alerts[symbol]; ok {
		return &alert, nil
	}
	return nil, nil
}

// ListActive returns all active alerts, newest first
func (m *MemoryRepository) ListActive(_ context.Context) ([]contracts.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	active := make([]contracts.Alert, 0)
	for _, alert := range m.alerts {
		if alert.IsActive {
			active = append(active, alert)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	return active, nil
}
