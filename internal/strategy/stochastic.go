package strategy

import (
	"fmt"

	"github.com/overline-lab/backstrat/internal/indicator"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// StochasticParams configures the stochastic oscillator strategy.
type StochasticParams struct {
	KPeriod    int     `yaml:"k_period" json:"k_period" jsonschema:"title=%K Period,minimum=1" validate:"required,min=1"`
	DPeriod    int     `yaml:"d_period" json:"d_period" jsonschema:"title=%D Period,minimum=1" validate:"required,min=1"`
	Oversold   float64 `yaml:"oversold" json:"oversold" jsonschema:"title=Oversold Level,minimum=0,maximum=100" validate:"gte=0,lte=100"`
	Overbought float64 `yaml:"overbought" json:"overbought" jsonschema:"title=Overbought Level,minimum=0,maximum=100" validate:"gte=0,lte=100,gtfield=Oversold"`

	UseTrendFilter bool `yaml:"use_trend_filter" json:"use_trend_filter" jsonschema:"title=Use Trend Filter"`
	TrendPeriod    int  `yaml:"trend_period" json:"trend_period" jsonschema:"title=Trend Filter Period,minimum=1" validate:"min=1"`
}

// DefaultStochasticParams returns the standard 14/3 setup with 20/80
// levels.
func DefaultStochasticParams() StochasticParams {
	return StochasticParams{KPeriod: 14, DPeriod: 3, Oversold: 20, Overbought: 80, TrendPeriod: 200}
}

// StochasticReversion buys on %K/%D bullish crosses inside the oversold
// zone and sells on bearish crosses inside the overbought zone.
type StochasticReversion struct {
	params StochasticParams
}

// NewStochasticReversion builds the strategy after validating the
// parameters.
func NewStochasticReversion(params StochasticParams) (*StochasticReversion, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid stochastic parameters", err)
	}

	return &StochasticReversion{params: params}, nil
}

func (s *StochasticReversion) Name() string {
	return fmt.Sprintf("stochastic(%d/%d %v/%v)", s.params.KPeriod, s.params.DPeriod, s.params.Oversold, s.params.Overbought)
}

func (s *StochasticReversion) RequiredHistory() int {
	required := s.params.KPeriod + s.params.DPeriod + 10
	if s.params.UseTrendFilter && s.params.TrendPeriod+10 > required {
		required = s.params.TrendPeriod + 10
	}

	return required
}

func (s *StochasticReversion) Setup(bars []types.Bar) error {
	if len(bars) < s.RequiredHistory() {
		return errors.NewInsufficientDataError(errors.InsufficientDataError{
			Required: s.RequiredHistory(),
			Actual:   len(bars),
			Message:  "not enough bars for stochastic reversion",
		})
	}

	return nil
}

func (s *StochasticReversion) Signals(bars []types.Bar) ([]types.SignalType, error) {
	stoch, err := indicator.Stochastic(bars, s.params.KPeriod, s.params.DPeriod)
	if err != nil {
		return nil, err
	}
	var trend []float64
	closes := indicator.Closes(bars)
	if s.params.UseTrendFilter {
		trend, err = indicator.SMA(closes, s.params.TrendPeriod)
		if err != nil {
			return nil, err
		}
	}

	signals := holdSeries(len(bars))
	for i := 1; i < len(bars); i++ {
		buy := crossedAbove(stoch.K, stoch.D, i) &&
			stoch.K[i] < s.params.Oversold && stoch.D[i] < s.params.Oversold
		sell := crossedBelow(stoch.K, stoch.D, i) &&
			stoch.K[i] > s.params.Overbought && stoch.D[i] > s.params.Overbought
		if s.params.UseTrendFilter {
			buy = buy && closes[i] > trend[i]
			sell = sell || closes[i] < trend[i]
		}
		if buy {
			signals[i] = types.SignalTypeBuy
		}
		if sell {
			signals[i] = types.SignalTypeSell
		}
	}

	return signals, nil
}
