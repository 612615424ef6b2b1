package alerts

import (
	"context"
	"fmt"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/pkg/logger"
)

// TriggeredAlert pairs a fired alert with the price that fired it
type TriggeredAlert struct {
	Alert contracts.Alert `json:"alert"`
	Price float64         `json:"price"`
}

// Service checks active alerts against fresh prices and manages their
// lifecycle. Triggered alerts are deactivated so they fire once.
type Service struct {
	repo   contracts.AlertRepository
	clock  contracts.Clock
	logger *logger.Logger
}

// NewService creates an alert service
func NewService(repo contracts.AlertRepository, clock contracts.Clock, log *logger.Logger) *Service {
	if clock == nil {
		clock = contracts.SystemClock{}
	}
	return &Service{repo: repo, clock: clock, logger: log}
}

// Set creates or replaces the alert for a symbol
func (s *Service) Set(ctx context.Context, symbol string, targetPrice float64, condition contracts.AlertCondition) error {
	if targetPrice <= 0 {
		return fmt.Errorf("target price must be positive, got %v", targetPrice)
	}
	if condition != contracts.AlertAbove && condition != contracts.AlertBelow {
		return fmt.Errorf("unknown alert condition %q", condition)
	}

	return s.repo.Upsert(ctx, contracts.Alert{
		Symbol:      symbol,
		TargetPrice: targetPrice,
		Condition:   condition,
		IsActive:    true,
		CreatedAt:   s.clock.Now(),
	})
}

// Remove deletes the alert for a symbol
func (s *Service) Remove(ctx context.Context, symbol string) error {
	return s.repo.Delete(ctx, symbol)
}

// ListActive returns alerts still waiting to trigger
func (s *Service) ListActive(ctx context.Context) ([]contracts.Alert, error) {
	return s.repo.ListActive(ctx)
}

// Check fires alerts whose condition the fresh prices satisfy, deactivating
// each one so it does not fire again. Persistence failures are logged and
// do not abort the rest of the batch.
func (s *Service) Check(ctx context.Context, prices map[string]float64) []TriggeredAlert {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load active alerts")
		return nil
	}

	triggered := make([]TriggeredAlert, 0)
	for _, alert := range active {
		price, ok := prices[alert.Symbol]
		if !ok || !alert.Triggered(price) {
			continue
		}

		if err := s.repo.Deactivate(ctx, alert.Symbol); err != nil {
			s.logger.WithError(err).WithField("symbol", alert.Symbol).Error("Failed to deactivate alert")
			continue
		}

		s.logger.WithFields(map[string]interface{}{
			"symbol":    alert.Symbol,
			"condition": alert.Condition,
			"target":    alert.TargetPrice,
			"price":     price,
		}).Info("Price alert triggered")
		triggered = append(triggered, TriggeredAlert{Alert: alert, Price: price})
	}

	return triggered
}
