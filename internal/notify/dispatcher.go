package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/taworn/setscan/internal/alerts"
	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/pkg/logger"
)

// Dispatcher turns scan events into operator messages. Every send is
// best-effort: failures are logged and swallowed.
type Dispatcher struct {
	notifier contracts.Notifier
	logger   *logger.Logger
}

// NewDispatcher creates a dispatcher over a notifier
func NewDispatcher(notifier contracts.Notifier, log *logger.Logger) *Dispatcher {
	return &Dispatcher{notifier: notifier, logger: log}
}

// TradeClosed announces a paper trade hitting its target or stop
func (d *Dispatcher) TradeClosed(ctx context.Context, event contracts.TradeClosedEvent) {
	record := event.Record

	var header string
	if event.Outcome == contracts.StatusWin {
		header = fmt.Sprintf("🎯 <b>%s hit target!</b>", record.Symbol)
	} else {
		header = fmt.Sprintf("🛑 <b>%s hit stop loss</b>", record.Symbol)
	}

	pct := 0.0
	if record.PercentChange != nil {
		pct = *record.PercentChange
	}

	message := fmt.Sprintf("%s\nEntry: %.2f → Exit: %.2f (%+.2f%%)",
		header, record.EntryPrice, event.ExitPrice, pct)
	d.send(ctx, message)
}

// AlertTriggered announces a fired price alert
func (d *Dispatcher) AlertTriggered(ctx context.Context, triggered alerts.TriggeredAlert) {
	direction := "above"
	if triggered.Alert.Condition == contracts.AlertBelow {
		direction = "below"
	}
	message := fmt.Sprintf("🔔 <b>%s</b> is %s %.2f (now %.2f)",
		triggered.Alert.Symbol, direction, triggered.Alert.TargetPrice, triggered.Price)
	d.send(ctx, message)
}

// NewSignals announces symbols entering the recommendation list
func (d *Dispatcher) NewSignals(ctx context.Context, recs []*contracts.Recommendation) {
	if len(recs) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📈 <b>New signals (%d)</b>\n", len(recs))
	for _, rec := range recs {
		fmt.Fprintf(&b, "\n<b>%s</b> score %d\nEntry %.2f | Target %.2f | Stop %.2f | RR %s\n%s",
			rec.Symbol, rec.Score, rec.EntryPoint, rec.TargetPrice, rec.StopLoss, rec.RiskReward, rec.ChartPattern)
	}
	d.send(ctx, b.String())
}

func (d *Dispatcher) send(ctx context.Context, message string) {
	if err := d.notifier.Send(ctx, message); err != nil {
		d.logger.WithError(err).Warn("Failed to send notification")
	}
}
