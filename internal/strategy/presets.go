package strategy

import (
	"github.com/overline-lab/backstrat/internal/version"
)

// DefaultCatalog returns a catalog with every built-in strategy and
// preset registered.
func DefaultCatalog() (*Catalog, error) {
	c := NewCatalog()
	api := version.GetVersion()

	if err := RegisterStrategy(c, Metadata{
		Name:        "ma_crossover",
		Description: "Trend-following strategy trading fast/slow moving average crossovers",
		Category:    CategoryTrendFollowing,
		APIVersion:  api,
	}, DefaultMovingAverageParams(), func(p MovingAverageParams) (Strategy, error) {
		return NewMovingAverageCrossover(p)
	}); err != nil {
		return nil, err
	}

	if err := RegisterStrategy(c, Metadata{
		Name:        "rsi",
		Description: "Mean-reversion strategy trading RSI oversold and overbought crossings",
		Category:    CategoryMeanReversion,
		APIVersion:  api,
	}, DefaultRSIParams(), func(p RSIParams) (Strategy, error) {
		return NewRSIReversion(p)
	}); err != nil {
		return nil, err
	}

	if err := RegisterStrategy(c, Metadata{
		Name:        "macd",
		Description: "Momentum strategy trading MACD line and signal line crossovers",
		Category:    CategoryMomentum,
		APIVersion:  api,
	}, DefaultMACDParams(), func(p MACDParams) (Strategy, error) {
		return NewMACDMomentum(p)
	}); err != nil {
		return nil, err
	}

	if err := RegisterStrategy(c, Metadata{
		Name:        "bollinger",
		Description: "Mean-reversion strategy trading Bollinger band touches",
		Category:    CategoryMeanReversion,
		APIVersion:  api,
	}, DefaultBollingerParams(), func(p BollingerParams) (Strategy, error) {
		return NewBollingerReversion(p)
	}); err != nil {
		return nil, err
	}

	if err := RegisterStrategy(c, Metadata{
		Name:        "donchian",
		Description: "Trend-following breakout strategy trading Donchian channel breaks",
		Category:    CategoryTrendFollowing,
		APIVersion:  api,
	}, DefaultDonchianParams(), func(p DonchianParams) (Strategy, error) {
		return NewDonchianBreakout(p)
	}); err != nil {
		return nil, err
	}

	if err := RegisterStrategy(c, Metadata{
		Name:        "stochastic",
		Description: "Mean-reversion strategy trading stochastic crossovers in extreme zones",
		Category:    CategoryMeanReversion,
		APIVersion:  api,
	}, DefaultStochasticParams(), func(p StochasticParams) (Strategy, error) {
		return NewStochasticReversion(p)
	}); err != nil {
		return nil, err
	}

	if err := RegisterStrategy(c, Metadata{
		Name:        "adx",
		Description: "Trend-strength strategy that only trades while ADX signals a strong trend",
		Category:    CategoryTrendFollowing,
		APIVersion:  api,
	}, DefaultADXParams(), func(p ADXParams) (Strategy, error) {
		return NewADXTrend(p)
	}); err != nil {
		return nil, err
	}

	for _, preset := range BuiltinPresets() {
		if err := c.RegisterPreset(preset); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// BuiltinPresets returns the named parameterizations shipped with the
// engine.
func BuiltinPresets() []Preset {
	return []Preset{
		{
			Name:        "golden_cross",
			Strategy:    "ma_crossover",
			Description: "Long-term 50/200 SMA golden cross",
			Config:      "fast: 50\nslow: 200\ntype: sma",
		},
		{
			Name:        "fast_ma_crossover",
			Strategy:    "ma_crossover",
			Description: "Responsive 10/30 EMA crossover for swing trading",
			Config:      "fast: 10\nslow: 30\ntype: ema",
		},
		{
			Name:        "rsi_30_70",
			Strategy:    "rsi",
			Description: "Classic RSI reversion at the 30/70 thresholds",
			Config:      "period: 14\noversold: 30\noverbought: 70",
		},
		{
			Name:        "rsi_20_80",
			Strategy:    "rsi",
			Description: "Conservative RSI reversion at the 20/80 thresholds",
			Config:      "period: 14\noversold: 20\noverbought: 80",
		},
		{
			Name:        "macd_standard",
			Strategy:    "macd",
			Description: "Standard 12/26/9 MACD crossover",
			Config:      "fast: 12\nslow: 26\nsignal: 9",
		},
		{
			Name:        "bb_standard",
			Strategy:    "bollinger",
			Description: "Standard 20-period 2-sigma Bollinger reversion",
			Config:      "period: 20\nstd_dev: 2.0",
		},
		{
			Name:        "donchian_20_10",
			Strategy:    "donchian",
			Description: "Classic turtle 20/10 channel breakout",
			Config:      "entry_period: 20\nexit_period: 10",
		},
		{
			Name:        "donchian_50_25",
			Strategy:    "donchian",
			Description: "Slow 50/25 channel breakout for long trends",
			Config:      "entry_period: 50\nexit_period: 25",
		},
		{
			Name:        "donchian_10_5",
			Strategy:    "donchian",
			Description: "Fast 10/5 channel breakout for short swings",
			Config:      "entry_period: 10\nexit_period: 5",
		},
		{
			Name:        "stochastic_14_3",
			Strategy:    "stochastic",
			Description: "Standard 14/3 stochastic reversion",
			Config:      "k_period: 14\nd_period: 3",
		},
		{
			Name:        "stochastic_slow",
			Strategy:    "stochastic",
			Description: "Smoothed 14/6 stochastic reversion",
			Config:      "k_period: 14\nd_period: 6",
		},
		{
			Name:        "stochastic_fast",
			Strategy:    "stochastic",
			Description: "Aggressive 5/3 stochastic reversion",
			Config:      "k_period: 5\nd_period: 3",
		},
		{
			Name:        "adx_25",
			Strategy:    "adx",
			Description: "ADX trend trading at the standard 25 threshold",
			Config:      "period: 14\nthreshold: 25",
		},
		{
			Name:        "adx_30",
			Strategy:    "adx",
			Description: "Conservative ADX trend trading at the 30 threshold",
			Config:      "period: 14\nthreshold: 30",
		},
		{
			Name:        "adx_20",
			Strategy:    "adx",
			Description: "Aggressive ADX trend trading at the 20 threshold",
			Config:      "period: 14\nthreshold: 20",
		},
	}
}
