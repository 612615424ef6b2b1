package contracts

// Indicators is the indicator bundle attached to a recommendation
type Indicators struct {
	RSI          int             `json:"rsi"` // 0-100
	RSISource    IndicatorSource `json:"rsi_source"`
	MACD         Signal          `json:"macd"`
	MACDSource   IndicatorSource `json:"macd_source"`
	VolumeChange int             `json:"volume_change"` // percent of average volume
	AboveMA20    bool            `json:"above_ma20"`
	AboveMA50    bool            `json:"above_ma50"`
}

// Recommendation is a derived trade idea for one symbol, rebuilt from a fresh
// Quote every scan cycle and never mutated afterwards.
type Recommendation struct {
	Symbol         string     `json:"symbol"`
	Name           string     `json:"name"`
	CurrentPrice   float64    `json:"current_price"`
	EntryPoint     float64    `json:"entry_point"` // tick-rounded
	TargetPrice    float64    `json:"target_price"`
	StopLoss       float64    `json:"stop_loss"`
	RiskReward     string     `json:"risk_reward"` // "1:X.XX"
	HoldingPeriod  string     `json:"holding_period"`
	TechnicalSetup string     `json:"technical_setup"`
	Indicators     Indicators `json:"indicators"`
	ChartPattern   string     `json:"chart_pattern"`
	Volume         int64      `json:"volume"`
	AvgVolume      int64      `json:"avg_volume"`
	Volatility     Volatility `json:"volatility"`
	Momentum       Momentum   `json:"momentum"`
	DividendYield  float64    `json:"dividend_yield"` // percent
	Score          int        `json:"score"`          // additive heuristic, not a probability
}

// VolumeRatio returns volume relative to the rolling average, 1 when the
// average is unknown
func (r *Recommendation) VolumeRatio() float64 {
	if r.AvgVolume > 0 {
		return float64(r.Volume) / float64(r.AvgVolume)
	}
	return 1
}

// NotionalValue returns the traded value in THB for the session
func (r *Recommendation) NotionalValue() float64 {
	return float64(r.Volume) * r.CurrentPrice
}
