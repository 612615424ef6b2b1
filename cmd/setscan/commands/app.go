package commands

import (
	"context"

	"github.com/taworn/setscan/internal/alerts"
	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/internal/external/set"
	"github.com/taworn/setscan/internal/external/yahoo"
	"github.com/taworn/setscan/internal/fundamentals"
	"github.com/taworn/setscan/internal/ledger"
	"github.com/taworn/setscan/internal/notify"
	"github.com/taworn/setscan/internal/recommend"
	"github.com/taworn/setscan/internal/scanner"
	"github.com/taworn/setscan/internal/screen"
	"github.com/taworn/setscan/internal/settings"
	"github.com/taworn/setscan/pkg/config"
	"github.com/taworn/setscan/pkg/database"
	"github.com/taworn/setscan/pkg/httputil"
	"github.com/taworn/setscan/pkg/logger"
	"github.com/taworn/setscan/pkg/redis"
)

// app bundles the wired application. Built once per command invocation.
type app struct {
	cfg    *config.Config
	logger *logger.Logger
	db     *database.DB // nil when running without Postgres
	cache  *redis.Client

	yahooClient *yahoo.Client
	universe    *set.Universe
	settings    contracts.SettingsRepository
	ledgerSvc   *ledger.Service
	alertSvc    *alerts.Service
	updater     *fundamentals.Updater
	telegram    *notify.Telegram
	scanner     *scanner.Scanner
}

// newApp loads configuration and wires every component. Postgres is
// optional: when the connection fails the app runs on in-memory stores,
// losing state across restarts but staying fully functional.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing without cache")
		redisClient, _ = redis.New(&config.Config{})
	}

	var (
		db           *database.DB
		ledgerRepo   contracts.LedgerRepository
		alertRepo    contracts.AlertRepository
		settingsRepo contracts.SettingsRepository
		fundStore    fundamentals.Store
	)

	db, err = database.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Postgres unavailable, using in-memory stores")
		db = nil
		ledgerRepo = ledger.NewMemoryRepository()
		alertRepo = alerts.NewMemoryRepository()
		settingsRepo = settings.NewMemoryRepository()
		fundStore = fundamentals.NewMemoryStore()
	} else {
		ledgerRepo = ledger.NewRepository(db.Pool)
		alertRepo = alerts.NewRepository(db.Pool)
		settingsRepo = settings.NewRepository(db.Pool)
		fundStore = fundamentals.NewRepository(db.Pool)
	}

	httpClient := httputil.New(log).
		WithRateLimiter(redis.NewRateLimiter(redisClient, "setscan"), redis.YahooRateLimit)

	yahooClient := yahoo.NewClient(cfg.Yahoo, httpClient, redis.NewCache(redisClient, "setscan"), log)
	universe := set.NewUniverse(set.NewScraper(httpClient, log), settingsRepo, log)

	telegram := notify.NewTelegram(cfg.Telegram, httputil.New(log), log)
	dispatcher := notify.NewDispatcher(telegram, log)

	ledgerSvc := ledger.NewService(ledgerRepo, nil, log)
	alertSvc := alerts.NewService(alertRepo, nil, log)

	yield := recommend.YieldEstimator(nil)
	if cfg.Scan.StrictDividend {
		yield = recommend.ZeroYield
	}

	scan := scanner.New(scanner.Deps{
		Universe:   universe,
		Source:     &cachedYieldSource{inner: yahooClient, store: fundStore},
		Builder:    recommend.NewBuilder(yield),
		Screener:   screen.NewScreener(log),
		Ledger:     ledgerSvc,
		Alerts:     alertSvc,
		Dispatcher: dispatcher,
		Logger:     log,
	})

	return &app{
		cfg:         cfg,
		logger:      log,
		db:          db,
		cache:       redisClient,
		yahooClient: yahooClient,
		universe:    universe,
		settings:    settingsRepo,
		ledgerSvc:   ledgerSvc,
		alertSvc:    alertSvc,
		updater:     fundamentals.NewUpdater(yahooClient, fundStore, log),
		telegram:    telegram,
		scanner:     scan,
	}, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	a.cache.Close()
}

// cachedYieldSource decorates the quote source with cached dividend
// yields, so scans use fundamentals refreshed off the hot path.
type cachedYieldSource struct {
	inner contracts.QuoteSource
	store fundamentals.Store
}

func (c *cachedYieldSource) FetchQuote(ctx context.Context, symbol string) (*contracts.Quote, error) {
	quote, err := c.inner.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if quote.DividendYield == 0 {
		if yield, err := c.store.DividendYield(ctx, symbol); err == nil {
			quote.DividendYield = yield
		}
	}
	return quote, nil
}

func (c *cachedYieldSource) FetchHistory(ctx context.Context, symbol string) ([]contracts.Candle, error) {
	return c.inner.FetchHistory(ctx, symbol)
}
