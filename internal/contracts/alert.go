package contracts

import "time"

// AlertCondition is the direction a price alert watches
type AlertCondition string

const (
	AlertAbove AlertCondition = "above"
	AlertBelow AlertCondition = "below"
)

// Alert is a user-defined watch condition. At most one active alert exists
// per symbol; a new alert replaces the old one. Triggered alerts are
// deactivated, not deleted.
type Alert struct {
	Symbol      string         `json:"symbol"`
	TargetPrice float64        `json:"target_price"`
	Condition   AlertCondition `json:"condition"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Triggered reports whether the given price satisfies the alert condition
func (a *Alert) Triggered(price float64) bool {
	if !a.IsActive {
		return false
	}
	switch a.Condition {
	case AlertAbove:
		return price >= a.TargetPrice
	case AlertBelow:
		return price <= a.TargetPrice
	}
	return false
}
