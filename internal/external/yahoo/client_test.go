package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/pkg/config"
	"github.com/taworn/setscan/pkg/httputil"
	"github.com/taworn/setscan/pkg/logger"
	"github.com/taworn/setscan/pkg/redis"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "console"})
}

func disabledCache(t *testing.T) *redis.Cache {
	t.Helper()
	client, err := redis.New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	return redis.NewCache(client, "setscan-test")
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := config.YahooConfig{
		BaseURL:       baseURL,
		UserAgent:     "setscan-test",
		MarketSuffix:  ".BK",
		RatePerSecond: 100,
		QuoteCacheTTL: time.Minute,
	}
	return NewClient(cfg, httputil.New(testLogger()).DisableRetry(), disabledCache(t), testLogger())
}

// chartJSON renders a minimal chart payload with n daily sessions ending at
// the given price, each close stepping up by 0.25.
func chartJSON(symbol string, n int, lastClose float64) string {
	timestamps := make([]string, n)
	closes := make([]string, n)
	highs := make([]string, n)
	lows := make([]string, n)
	opens := make([]string, n)
	volumes := make([]string, n)

	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC).Add(-time.Duration(n) * 24 * time.Hour)
	for i := 0; i < n; i++ {
		c := lastClose - float64(n-1-i)*0.25
		timestamps[i] = fmt.Sprintf("%d", base.Add(time.Duration(i)*24*time.Hour).Unix())
		closes[i] = fmt.Sprintf("%.2f", c)
		highs[i] = fmt.Sprintf("%.2f", c+0.50)
		lows[i] = fmt.Sprintf("%.2f", c-0.50)
		opens[i] = fmt.Sprintf("%.2f", c-0.25)
		volumes[i] = "70000000"
	}

	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"meta": {
					"symbol": "%s",
					"longName": "Test Company",
					"regularMarketPrice": %.2f,
					"chartPreviousClose": %.2f,
					"regularMarketDayHigh": %.2f,
					"regularMarketDayLow": %.2f,
					"regularMarketVolume": 125000000
				},
				"timestamp": [%s],
				"indicators": {"quote": [{
					"open": [%s],
					"high": [%s],
					"low": [%s],
					"close": [%s],
					"volume": [%s]
				}]}
			}],
			"error": null
		}
	}`, symbol, lastClose, lastClose-0.25, lastClose+0.50, lastClose-0.50,
		strings.Join(timestamps, ","), strings.Join(opens, ","), strings.Join(highs, ","),
		strings.Join(lows, ","), strings.Join(closes, ","), strings.Join(volumes, ","))
}

func TestFetchQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/PTT.BK")
		assert.Equal(t, "setscan-test", r.Header.Get("User-Agent"))
		fmt.Fprint(w, chartJSON("PTT.BK", 60, 35.25))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	quote, err := client.FetchQuote(context.Background(), "PTT")
	require.NoError(t, err)

	assert.Equal(t, "PTT", quote.Symbol)
	assert.Equal(t, "Test Company", quote.Name)
	assert.Equal(t, 35.25, quote.Price)
	assert.Equal(t, int64(125_000_000), quote.Volume)
	assert.Equal(t, int64(70_000_000), quote.AvgVolume)
	assert.InDelta(t, 0.25/35.00*100, quote.ChangePercent, 1e-6)

	// 60 sessions is enough history for exact indicators
	require.NotNil(t, quote.RSI)
	assert.Equal(t, contracts.SourceComputed, quote.RSI.Source)
	assert.Equal(t, 100.0, quote.RSI.Value, "strictly rising closes")
	require.NotNil(t, quote.MACD)
	assert.Equal(t, contracts.SignalBullish, quote.MACD.Value)
}

func TestFetchQuoteShortHistoryOmitsIndicators(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON("NEW.BK", 5, 12.00))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	quote, err := client.FetchQuote(context.Background(), "NEW")
	require.NoError(t, err)

	assert.Nil(t, quote.RSI)
	assert.Nil(t, quote.MACD)
}

func TestFetchQuoteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.FetchQuote(context.Background(), "BOGUS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}

func TestFetchQuoteHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.FetchQuote(context.Background(), "PTT")
	assert.Error(t, err)
}

func TestFetchHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON("PTT.BK", 10, 35.25))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	candles, err := client.FetchHistory(context.Background(), "PTT")
	require.NoError(t, err)
	require.Len(t, candles, 10)

	assert.Equal(t, 35.25, candles[9].Close)
	assert.True(t, candles[0].Time.Before(candles[9].Time), "candles must be oldest first")
}

func TestDividendYield(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v10/finance/quoteSummary/PTT.BK")
		fmt.Fprint(w, `{"quoteSummary": {"result": [{"summaryDetail": {"dividendYield": {"raw": 0.042}}}], "error": null}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	yield, err := client.DividendYield(context.Background(), "PTT")
	require.NoError(t, err)
	assert.InDelta(t, 4.2, yield, 1e-9)
}

func TestDividendYieldMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteSummary": {"result": [], "error": null}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	yield, err := client.DividendYield(context.Background(), "PTT")
	require.NoError(t, err)
	assert.Equal(t, 0.0, yield)
}

func TestTickerSuffix(t *testing.T) {
	client := newTestClient(t, "http://unused")
	assert.Equal(t, "PTT.BK", client.ticker("PTT"))
	assert.Equal(t, "PTT.BK", client.ticker("PTT.BK"), "existing suffix kept")
}
