package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/pkg/logger"
)

// Service coordinates ledger persistence with the price-transition logic.
type Service struct {
	repo    contracts.LedgerRepository
	tracker *Tracker
	clock   contracts.Clock
	logger  *logger.Logger
}

// NewService creates a ledger service
func NewService(repo contracts.LedgerRepository, clock contracts.Clock, log *logger.Logger) *Service {
	if clock == nil {
		clock = contracts.SystemClock{}
	}
	return &Service{
		repo:    repo,
		tracker: NewTracker(clock),
		clock:   clock,
		logger:  log,
	}
}

// Record saves a recommendation as an OPEN paper trade. Duplicate symbols
// on the same calendar day are skipped; the existing record is returned.
func (s *Service) Record(ctx context.Context, rec *contracts.Recommendation) (contracts.LedgerRecord, bool, error) {
	record := contracts.LedgerRecord{
		ID:                  uuid.NewString(),
		Symbol:              rec.Symbol,
		EntryDate:           s.clock.Now(),
		RecommendationPrice: rec.CurrentPrice,
		EntryPrice:          rec.EntryPoint,
		TargetPrice:         rec.TargetPrice,
		StopLoss:            rec.StopLoss,
		Status:              contracts.StatusOpen,
	}

	saved, created, err := s.repo.Create(ctx, record)
	if err != nil {
		return contracts.LedgerRecord{}, false, err
	}
	if !created {
		s.logger.WithField("symbol", rec.Symbol).Debug("Ledger record already exists for today, skipping")
	}
	return saved, created, nil
}

// CheckPrices applies fresh prices to all open records and returns the
// close events for records that hit their target or stop. Persistence
// failures are logged and skipped; the cycle continues with in-memory
// state.
func (s *Service) CheckPrices(ctx context.Context, prices map[string]float64) []contracts.TradeClosedEvent {
	open, err := s.repo.ListOpen(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load open ledger records")
		return nil
	}

	events := make([]contracts.TradeClosedEvent, 0)
	for _, record := range open {
		price, ok := prices[record.Symbol]
		if !ok {
			continue
		}

		updated, event, changed := s.tracker.Apply(record, price)
		if !changed {
			continue
		}

		if err := s.repo.Update(ctx, updated); err != nil {
			s.logger.WithError(err).WithField("symbol", record.Symbol).Error("Failed to persist ledger transition")
			continue
		}

		s.logger.WithFields(map[string]interface{}{
			"symbol":  updated.Symbol,
			"outcome": updated.Status,
			"exit":    price,
		}).Info("Paper trade closed")
		events = append(events, *event)
	}

	return events
}

// OpenSymbols returns the set of symbols with an OPEN record, used to
// exclude already-held positions from a fresh scan.
func (s *Service) OpenSymbols(ctx context.Context) (map[string]bool, error) {
	open, err := s.repo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	symbols := make(map[string]bool, len(open))
	for _, record := range open {
		symbols[record.Symbol] = true
	}
	return symbols, nil
}

// List returns recent records, newest first
func (s *Service) List(ctx context.Context, limit int) ([]contracts.LedgerRecord, error) {
	return s.repo.List(ctx, limit)
}

// Clear removes every record
func (s *Service) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Stats aggregates paper-trading outcomes
func (s *Service) Stats(ctx context.Context) (contracts.LedgerStats, error) {
	return s.repo.Stats(ctx)
}
