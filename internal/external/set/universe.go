// Package set resolves the symbol universe for Stock Exchange of Thailand
// markets. Constituents are scraped from the SET website, cached in
// settings, and fall back to a built-in list when both are unavailable.
package set

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/internal/settings"
	"github.com/taworn/setscan/pkg/httputil"
	"github.com/taworn/setscan/pkg/logger"
)

const constituentsURL = "https://www.set.or.th/en/market/index/%s/overview"

// DefaultSymbols is the fallback universe of liquid SET names used when
// neither the scraper nor the cached list is available.
var DefaultSymbols = []string{
	"PTT", "AOT", "CPALL", "SCC", "ADVANC",
	"KBANK", "SCB", "BBL", "GULF", "BDMS",
	"TRUE", "DELTA", "BEM", "BTS", "PTTEP",
	"PTTGC", "IVL", "MINT", "CPN", "INTUCH",
}

// Universe resolves scan symbols for a market, preferring the cached
// constituent list and falling back to the defaults.
type Universe struct {
	scraper *Scraper
	repo    contracts.SettingsRepository
	logger  *logger.Logger
}

// NewUniverse creates a symbol universe backed by the settings store
func NewUniverse(scraper *Scraper, repo contracts.SettingsRepository, log *logger.Logger) *Universe {
	return &Universe{scraper: scraper, repo: repo, logger: log}
}

var _ contracts.SymbolUniverse = (*Universe)(nil)

func universeKey(market string) string {
	return settings.KeySymbolUniverse + ":" + strings.ToLower(market)
}

// Symbols returns the symbols to scan for a market
func (u *Universe) Symbols(ctx context.Context, market string) ([]string, error) {
	raw, err := u.repo.Get(ctx, universeKey(market))
	if err != nil {
		u.logger.WithError(err).Warn("Failed to load cached symbol universe")
	}
	if len(raw) > 0 {
		var symbols []string
		if err := json.Unmarshal(raw, &symbols); err == nil && len(symbols) > 0 {
			return symbols, nil
		}
	}

	u.logger.WithField("market", market).Info("No cached universe, using default symbols")
	return append([]string(nil), DefaultSymbols...), nil
}

// Refresh scrapes the current constituents and caches them. The cached
// list is left untouched when scraping fails.
func (u *Universe) Refresh(ctx context.Context, market string) ([]string, error) {
	symbols, err := u.scraper.Constituents(ctx, market)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal universe: %w", err)
	}
	if err := u.repo.Set(ctx, universeKey(market), raw); err != nil {
		return nil, err
	}

	u.logger.WithFields(map[string]interface{}{
		"market":  market,
		"symbols": len(symbols),
	}).Info("Symbol universe refreshed")
	return symbols, nil
}

// Scraper extracts index constituents from the SET website
type Scraper struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewScraper creates a constituents scraper
func NewScraper(httpClient *httputil.Client, log *logger.Logger) *Scraper {
	return &Scraper{httpClient: httpClient, logger: log, baseURL: constituentsURL}
}

// Constituents returns the symbols of an index page, e.g. "SET100"
func (s *Scraper) Constituents(ctx context.Context, market string) ([]string, error) {
	url := fmt.Sprintf(s.baseURL, strings.ToLower(market))

	resp, err := s.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse constituents page: %w", err)
	}

	symbols := parseConstituents(doc)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no constituents found for %s", market)
	}
	return symbols, nil
}

// parseConstituents pulls symbol cells out of the constituents table.
// SET symbols are short upper-case codes in the first column.
func parseConstituents(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	symbols := make([]string, 0)

	doc.Find("table tbody tr td:first-child").Each(func(_ int, cell *goquery.Selection) {
		symbol := strings.TrimSpace(cell.Text())
		if !validSymbol(symbol) || seen[symbol] {
			return
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	})

	return symbols
}

func validSymbol(s string) bool {
	if len(s) < 2 || len(s) > 10 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' && r != '&' {
			return false
		}
	}
	return true
}
