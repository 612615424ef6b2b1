package fundamentals

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taworn/setscan/pkg/config"
	"github.com/taworn/setscan/pkg/logger"
)

type fakeYieldSource struct {
	yields map[string]float64
	errs   map[string]error
	calls  []string
}

func (f *fakeYieldSource) DividendYield(_ context.Context, symbol string) (float64, error) {
	f.calls = append(f.calls, symbol)
	if err := f.errs[symbol]; err != nil {
		return 0, err
	}
	return f.yields[symbol], nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "console"})
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	yield, err := store.DividendYield(ctx, "PTT")
	require.NoError(t, err)
	assert.Equal(t, 0.0, yield)

	require.NoError(t, store.SaveDividendYield(ctx, "PTT", 4.2))
	yield, err = store.DividendYield(ctx, "PTT")
	require.NoError(t, err)
	assert.Equal(t, 4.2, yield)
}

func TestRefreshCachesYields(t *testing.T) {
	source := &fakeYieldSource{
		yields: map[string]float64{"PTT": 4.2, "AOT": 1.1},
		errs:   map[string]error{"BROKEN": errors.New("upstream 500")},
	}
	store := NewMemoryStore()
	u := NewUpdater(source, store, testLogger())

	updated, err := u.Refresh(context.Background(), []string{"PTT", "BROKEN", "AOT", "NOYIELD"})
	require.NoError(t, err)

	// BROKEN errored and NOYIELD returned 0; neither is cached
	assert.Equal(t, 2, updated)

	yield, _ := store.DividendYield(context.Background(), "PTT")
	assert.Equal(t, 4.2, yield)
	yield, _ = store.DividendYield(context.Background(), "NOYIELD")
	assert.Equal(t, 0.0, yield)
}

func TestRefreshCapsSymbols(t *testing.T) {
	source := &fakeYieldSource{yields: map[string]float64{}}
	u := NewUpdater(source, NewMemoryStore(), testLogger())

	symbols := make([]string, 80)
	for i := range symbols {
		symbols[i] = "SYM"
	}

	_, err := u.Refresh(context.Background(), symbols)
	require.NoError(t, err)
	assert.Len(t, source.calls, maxSymbolsPerRun)
}

func TestRefreshHonorsCancellation(t *testing.T) {
	source := &fakeYieldSource{yields: map[string]float64{}}
	u := NewUpdater(source, NewMemoryStore(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	symbols := make([]string, 10) // two chunks, pause before the second
	for i := range symbols {
		symbols[i] = "SYM"
	}

	_, err := u.Refresh(ctx, symbols)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, source.calls, chunkSize, "second chunk must not run after cancellation")
}
