// Package yahoo fetches SET quotes and price history from the Yahoo
// Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/internal/indicators"
	"github.com/taworn/setscan/pkg/config"
	"github.com/taworn/setscan/pkg/httputil"
	"github.com/taworn/setscan/pkg/logger"
	"github.com/taworn/setscan/pkg/redis"
)

const (
	chartRange    = "3mo"
	chartInterval = "1d"

	// avgVolumeSessions is the rolling window for the average volume.
	avgVolumeSessions = 20
)

// Client handles communication with the Yahoo Finance API
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cache      *redis.Cache
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	suffix     string
	cacheTTL   time.Duration
}

// NewClient creates a new Yahoo Finance client. The cache may be backed by
// a disabled redis client, in which case every fetch goes upstream.
func NewClient(cfg config.YahooConfig, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 5
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cache:      cache,
		limiter:    rate.NewLimiter(rate.Limit(perSecond), perSecond),
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		suffix:     cfg.MarketSuffix,
		cacheTTL:   cfg.QuoteCacheTTL,
	}
}

var _ contracts.QuoteSource = (*Client)(nil)

// ticker appends the market suffix to a bare symbol
func (c *Client) ticker(symbol string) string {
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + c.suffix
}

// FetchQuote returns the latest snapshot for a symbol with indicators
// computed from the chart history when enough closes are available.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (*contracts.Quote, error) {
	key := redis.QuoteKey(symbol)
	var cached contracts.Quote
	if hit, err := c.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	result, err := c.fetchChart(ctx, symbol)
	if err != nil {
		return nil, err
	}

	quote, err := c.buildQuote(symbol, result)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, quote, c.cacheTTL); err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to cache quote")
	}
	return quote, nil
}

// FetchHistory returns daily candles for chart rendering, oldest first
func (c *Client) FetchHistory(ctx context.Context, symbol string) ([]contracts.Candle, error) {
	result, err := c.fetchChart(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}
	bars := result.Indicators.Quote[0]

	candles := make([]contracts.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(bars.Close) || bars.Close[i] == nil {
			continue // unfilled session, e.g. today before close
		}
		candle := contracts.Candle{
			Time:  time.Unix(ts, 0).UTC(),
			Close: *bars.Close[i],
		}
		if i < len(bars.Open) && bars.Open[i] != nil {
			candle.Open = *bars.Open[i]
		}
		if i < len(bars.High) && bars.High[i] != nil {
			candle.High = *bars.High[i]
		}
		if i < len(bars.Low) && bars.Low[i] != nil {
			candle.Low = *bars.Low[i]
		}
		if i < len(bars.Volume) && bars.Volume[i] != nil {
			candle.Volume = *bars.Volume[i]
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

// DividendYield returns the trailing dividend yield in percent, 0 when the
// summary has none.
func (c *Client) DividendYield(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=summaryDetail", c.baseURL, c.ticker(symbol))

	var payload summaryResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return 0, err
	}
	if apiErr := payload.QuoteSummary.Error; apiErr != nil {
		return 0, fmt.Errorf("quoteSummary error for %s: %s", symbol, apiErr.Description)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return 0, nil
	}

	detail := payload.QuoteSummary.Result[0].SummaryDetail
	yield := detail.DividendYield.Raw
	if yield == 0 {
		yield = detail.TrailingAnnualDividendYield.Raw
	}
	return yield * 100, nil
}

var _ contracts.YieldSource = (*Client)(nil)

func (c *Client) fetchChart(ctx context.Context, symbol string) (*chartResult, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.baseURL, c.ticker(symbol), chartRange, chartInterval)

	var payload chartResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}
	if apiErr := payload.Chart.Error; apiErr != nil {
		return nil, fmt.Errorf("chart error for %s: %s", symbol, apiErr.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty chart result for %s", symbol)
	}
	return &payload.Chart.Result[0], nil
}

func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.httpClient.GetWithHeaders(ctx, url, map[string]string{
		"User-Agent": c.userAgent,
		"Accept":     "application/json",
	})
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// buildQuote assembles a Quote from the chart result, attaching computed
// RSI and MACD readings when the close history is long enough.
func (c *Client) buildQuote(symbol string, result *chartResult) (*contracts.Quote, error) {
	meta := result.Meta
	if meta.RegularMarketPrice == 0 {
		return nil, fmt.Errorf("no market price for %s", symbol)
	}

	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	if name == "" {
		name = symbol
	}

	quote := &contracts.Quote{
		Symbol:        symbol,
		Name:          name,
		Price:         meta.RegularMarketPrice,
		PreviousClose: meta.ChartPreviousClose,
		High:          meta.RegularMarketDayHigh,
		Low:           meta.RegularMarketDayLow,
		Volume:        meta.RegularMarketVolume,
	}
	if quote.PreviousClose > 0 {
		quote.Change = quote.Price - quote.PreviousClose
		quote.ChangePercent = quote.Change / quote.PreviousClose * 100
	}

	closes, volumes := sessionSeries(result)
	if len(closes) > 0 {
		last := len(closes) - 1
		if quote.High == 0 || quote.Low == 0 {
			quote.High, quote.Low = sessionRange(result, last)
		}
		if quote.Volume == 0 && last < len(volumes) {
			quote.Volume = volumes[last]
		}
		if quote.Open == 0 {
			quote.Open = sessionOpen(result, last)
		}
	}
	quote.AvgVolume = averageVolume(volumes)

	// Attach exact indicators when the history supports them; the builder
	// falls back to snapshot estimates otherwise.
	if len(closes) >= indicators.DefaultRSIPeriod+1 {
		quote.RSI = &contracts.RSIReading{
			Value:  indicators.RSI(closes, indicators.DefaultRSIPeriod),
			Source: contracts.SourceComputed,
		}
	}
	if len(closes) >= 26 {
		quote.MACD = &contracts.MACDReading{
			Value:  indicators.MACDSignal(closes),
			Source: contracts.SourceComputed,
		}
	}

	return quote, nil
}

// sessionSeries extracts the filled close and volume series, oldest first
func sessionSeries(result *chartResult) (closes []float64, volumes []int64) {
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	bars := result.Indicators.Quote[0]

	for i := range bars.Close {
		if bars.Close[i] == nil {
			continue
		}
		closes = append(closes, *bars.Close[i])
		if i < len(bars.Volume) && bars.Volume[i] != nil {
			volumes = append(volumes, *bars.Volume[i])
		} else {
			volumes = append(volumes, 0)
		}
	}
	return closes, volumes
}

func sessionRange(result *chartResult, idx int) (high, low float64) {
	bars := result.Indicators.Quote[0]
	if idx < len(bars.High) && bars.High[idx] != nil {
		high = *bars.High[idx]
	}
	if idx < len(bars.Low) && bars.Low[idx] != nil {
		low = *bars.Low[idx]
	}
	return high, low
}

func sessionOpen(result *chartResult, idx int) float64 {
	bars := result.Indicators.Quote[0]
	if idx < len(bars.Open) && bars.Open[idx] != nil {
		return *bars.Open[idx]
	}
	return 0
}

// averageVolume is the mean of the last 20 sessions, excluding the current
// session which is still accumulating.
func averageVolume(volumes []int64) int64 {
	if len(volumes) < 2 {
		return 0
	}

	past := volumes[:len(volumes)-1]
	window := avgVolumeSessions
	if len(past) < window {
		window = len(past)
	}

	var sum int64
	for _, v := range past[len(past)-window:] {
		sum += v
	}
	return int64(math.Round(float64(sum) / float64(window)))
}
