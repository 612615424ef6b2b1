package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/pkg/config"
	"github.com/taworn/setscan/pkg/logger"
)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

var testTime = time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "console"})
}

func openRecord(symbol string) contracts.LedgerRecord {
	return contracts.LedgerRecord{
		ID:          "rec-" + symbol,
		Symbol:      symbol,
		EntryDate:   testTime,
		EntryPrice:  35.25,
		TargetPrice: 38.50,
		StopLoss:    33.75,
		Status:      contracts.StatusOpen,
	}
}

func TestTrackerWin(t *testing.T) {
	tr := NewTracker(fixedClock{testTime})

	updated, event, changed := tr.Apply(openRecord("PTT"), 38.60)

	require.True(t, changed)
	assert.Equal(t, contracts.StatusWin, updated.Status)
	require.NotNil(t, updated.ExitPrice)
	assert.Equal(t, 38.60, *updated.ExitPrice)
	assert.Equal(t, testTime, *updated.ExitDate)
	assert.InDelta(t, (38.60-35.25)/35.25*100, *updated.PercentChange, 1e-9)

	require.NotNil(t, event)
	assert.Equal(t, contracts.StatusWin, event.Outcome)
	assert.Equal(t, 38.60, event.ExitPrice)
}

func TestTrackerWinAtExactTarget(t *testing.T) {
	tr := NewTracker(fixedClock{testTime})

	_, _, changed := tr.Apply(openRecord("PTT"), 38.50)
	assert.True(t, changed, "price equal to target must close as WIN")
}

func TestTrackerLoss(t *testing.T) {
	tr := NewTracker(fixedClock{testTime})

	updated, event, changed := tr.Apply(openRecord("PTT"), 33.70)

	require.True(t, changed)
	assert.Equal(t, contracts.StatusLoss, updated.Status)
	assert.True(t, *updated.PercentChange < 0)
	assert.Equal(t, contracts.StatusLoss, event.Outcome)
}

func TestTrackerLossAtExactStop(t *testing.T) {
	tr := NewTracker(fixedClock{testTime})

	updated, _, changed := tr.Apply(openRecord("PTT"), 33.75)
	require.True(t, changed)
	assert.Equal(t, contracts.StatusLoss, updated.Status)
}

func TestTrackerNoTransitionInsideBand(t *testing.T) {
	tr := NewTracker(fixedClock{testTime})

	updated, event, changed := tr.Apply(openRecord("PTT"), 36.00)
	assert.False(t, changed)
	assert.Nil(t, event)
	assert.Equal(t, contracts.StatusOpen, updated.Status)
}

func TestTrackerTerminalRecordsUntouched(t *testing.T) {
	tr := NewTracker(fixedClock{testTime})

	record := openRecord("PTT")
	record.Status = contracts.StatusWin

	_, event, changed := tr.Apply(record, 10.00)
	assert.False(t, changed)
	assert.Nil(t, event)
}

func TestTrackerIgnoresZeroPrice(t *testing.T) {
	tr := NewTracker(fixedClock{testTime})

	_, _, changed := tr.Apply(openRecord("PTT"), 0)
	assert.False(t, changed, "a zero price is a bad quote, not a stop hit")
}

func TestMemoryRepositoryDuplicateDay(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first, created, err := repo.Create(ctx, openRecord("PTT"))
	require.NoError(t, err)
	require.True(t, created)

	dup := openRecord("PTT")
	dup.ID = "rec-other"
	dup.EntryDate = testTime.Add(4 * time.Hour) // same calendar day

	got, created, err := repo.Create(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, got.ID)

	nextDay := openRecord("PTT")
	nextDay.ID = "rec-next"
	nextDay.EntryDate = testTime.Add(24 * time.Hour)

	_, created, err = repo.Create(ctx, nextDay)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestMemoryRepositoryListNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for i, symbol := range []string{"OLD", "MID", "NEW"} {
		record := openRecord(symbol)
		record.ID = symbol
		record.EntryDate = testTime.Add(time.Duration(i) * 24 * time.Hour)
		_, _, err := repo.Create(ctx, record)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "NEW", all[0].Symbol)
	assert.Equal(t, "OLD", all[2].Symbol)

	limited, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMemoryRepositoryClearAndStats(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	win := openRecord("WIN")
	win.Status = contracts.StatusWin
	loss := openRecord("LOSS")
	loss.ID, loss.Status = "rec-loss", contracts.StatusLoss
	still := openRecord("OPEN")
	still.ID = "rec-open"

	for _, r := range []contracts.LedgerRecord{win, loss, still} {
		_, _, err := repo.Create(ctx, r)
		require.NoError(t, err)
	}

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, contracts.LedgerStats{Total: 3, Active: 1, Wins: 1, Losses: 1, WinRate: 50}, stats)

	require.NoError(t, repo.Clear(ctx))
	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

func TestServiceCheckPrices(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, fixedClock{testTime}, testLogger())
	ctx := context.Background()

	for _, symbol := range []string{"WINNER", "LOSER", "HOLDER"} {
		record := openRecord(symbol)
		record.ID = "rec-" + symbol
		_, _, err := repo.Create(ctx, record)
		require.NoError(t, err)
	}

	events := svc.CheckPrices(ctx, map[string]float64{
		"WINNER": 38.60,
		"LOSER":  33.70,
		// HOLDER has no fresh price this cycle
	})

	require.Len(t, events, 2)
	outcomes := map[string]contracts.RecordStatus{}
	for _, e := range events {
		outcomes[e.Record.Symbol] = e.Outcome
	}
	assert.Equal(t, contracts.StatusWin, outcomes["WINNER"])
	assert.Equal(t, contracts.StatusLoss, outcomes["LOSER"])

	open, err := svc.OpenSymbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"HOLDER": true}, open)
}

func TestServiceRecordDeduplicates(t *testing.T) {
	svc := NewService(NewMemoryRepository(), fixedClock{testTime}, testLogger())
	ctx := context.Background()

	rec := &contracts.Recommendation{
		Symbol:       "PTT",
		CurrentPrice: 35.25,
		EntryPoint:   35.25,
		TargetPrice:  37.00,
		StopLoss:     34.25,
	}

	first, created, err := svc.Record(ctx, rec)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, contracts.StatusOpen, first.Status)
	assert.NotEmpty(t, first.ID)

	second, created, err := svc.Record(ctx, rec)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}
