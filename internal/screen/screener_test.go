package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/pkg/config"
	"github.com/taworn/setscan/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "console"})
}

func rec(symbol string, mutate ...func(*contracts.Recommendation)) *contracts.Recommendation {
	r := &contracts.Recommendation{
		Symbol:        symbol,
		CurrentPrice:  20,
		Volume:        5_000_000,
		AvgVolume:     2_500_000, // ratio 2.0
		DividendYield: 3,
		Volatility:    contracts.VolatilityMedium,
		Momentum:      contracts.MomentumModerate,
		Indicators: contracts.Indicators{
			RSI:       55,
			MACD:      contracts.SignalBullish,
			AboveMA20: true,
		},
		Score: 50,
	}
	for _, m := range mutate {
		m(r)
	}
	return r
}

func baseParams() Params {
	return Params{
		MinVolumeValue:   10_000_000,
		MinDividendYield: 1,
		RiskLevel:        contracts.RiskMedium,
	}
}

func TestScreenPassesHealthyRecommendation(t *testing.T) {
	s := NewScreener(testLogger())

	out := s.Screen([]*contracts.Recommendation{rec("PTT")}, baseParams())
	require.Len(t, out, 1)
	assert.Equal(t, "PTT", out[0].Symbol)
}

func TestScreenFilters(t *testing.T) {
	tests := []struct {
		name   string
		rec    *contracts.Recommendation
		params func(Params) Params
		pass   bool
	}{
		{
			name: "notional value below minimum",
			rec: rec("A", func(r *contracts.Recommendation) {
				r.Volume = 100_000 // 2M baht < 10M minimum
			}),
			pass: false,
		},
		{
			name: "dividend below minimum",
			rec:  rec("B", func(r *contracts.Recommendation) { r.DividendYield = 0.5 }),
			pass: false,
		},
		{
			name: "high volatility rejected at medium risk",
			rec:  rec("C", func(r *contracts.Recommendation) { r.Volatility = contracts.VolatilityHigh }),
			pass: false,
		},
		{
			name:   "high volatility accepted at high risk",
			rec:    rec("D", func(r *contracts.Recommendation) { r.Volatility = contracts.VolatilityHigh }),
			params: func(p Params) Params { p.RiskLevel = contracts.RiskHigh; return p },
			pass:   true,
		},
		{
			name:   "medium volatility rejected at low risk",
			rec:    rec("E"),
			params: func(p Params) Params { p.RiskLevel = contracts.RiskLow; return p },
			pass:   false,
		},
		{
			name: "weak signal rejected in standard mode",
			rec: rec("F", func(r *contracts.Recommendation) {
				r.AvgVolume = 5_000_000 // ratio 1.0
				r.Indicators.MACD = contracts.SignalNeutral
			}),
			pass: false,
		},
		{
			name: "bullish macd alone is a good signal",
			rec: rec("G", func(r *contracts.Recommendation) {
				r.AvgVolume = 5_000_000 // ratio 1.0
			}),
			pass: true,
		},
		{
			name: "heavy volume alone is a good signal",
			rec: rec("H", func(r *contracts.Recommendation) {
				r.Indicators.MACD = contracts.SignalNeutral
			}),
			pass: true,
		},
		{
			name:   "excluded symbol dropped",
			rec:    rec("I"),
			params: func(p Params) Params { p.Excluded = map[string]bool{"I": true}; return p },
			pass:   false,
		},
	}

	s := NewScreener(testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := baseParams()
			if tt.params != nil {
				params = tt.params(params)
			}
			out := s.Screen([]*contracts.Recommendation{tt.rec}, params)
			if tt.pass {
				assert.Len(t, out, 1)
			} else {
				assert.Empty(t, out)
			}
		})
	}
}

func TestSniperGates(t *testing.T) {
	params := baseParams()
	params.SniperMode = true
	s := NewScreener(testLogger())

	// All four gates hold on the healthy fixture
	out := s.Screen([]*contracts.Recommendation{rec("PASS")}, params)
	require.Len(t, out, 1)

	failures := []func(*contracts.Recommendation){
		func(r *contracts.Recommendation) { r.AvgVolume = 5_000_000 }, // ratio 1.0 < 1.2
		func(r *contracts.Recommendation) { r.Indicators.AboveMA20 = false },
		func(r *contracts.Recommendation) { r.Indicators.RSI = 45 },
		func(r *contracts.Recommendation) { r.Indicators.RSI = 75 },
		func(r *contracts.Recommendation) { r.Momentum = contracts.MomentumWeak },
	}
	for i, mutate := range failures {
		out := s.Screen([]*contracts.Recommendation{rec("FAIL", mutate)}, params)
		assert.Empty(t, out, "gate %d should reject", i)
	}
}

// Sniper mode only tightens the good-signal test, so its survivors are
// always a subset of the standard-mode survivors of the same batch with the
// signal test removed.
func TestSniperModeNarrows(t *testing.T) {
	batch := []*contracts.Recommendation{
		rec("A"),
		rec("B", func(r *contracts.Recommendation) { r.Indicators.RSI = 45 }),
		rec("C", func(r *contracts.Recommendation) { r.Momentum = contracts.MomentumWeak }),
		rec("D", func(r *contracts.Recommendation) { r.DividendYield = 0 }),
	}

	s := NewScreener(testLogger())
	standard := s.Screen(batch, baseParams())
	sniperParams := baseParams()
	sniperParams.SniperMode = true
	sniper := s.Screen(batch, sniperParams)

	standardSet := make(map[string]bool, len(standard))
	for _, r := range standard {
		standardSet[r.Symbol] = true
	}
	for _, r := range sniper {
		assert.True(t, standardSet[r.Symbol], "sniper passed %s which standard mode rejected", r.Symbol)
	}
}

func TestRankStable(t *testing.T) {
	recs := []*contracts.Recommendation{
		{Symbol: "LOW", Score: 10},
		{Symbol: "TIE1", Score: 50},
		{Symbol: "HIGH", Score: 80},
		{Symbol: "TIE2", Score: 50},
	}

	Rank(recs)

	got := make([]string, len(recs))
	for i, r := range recs {
		got[i] = r.Symbol
	}
	assert.Equal(t, []string{"HIGH", "TIE1", "TIE2", "LOW"}, got)
}
