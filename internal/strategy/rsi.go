package strategy

import (
	"fmt"

	"github.com/overline-lab/backstrat/internal/indicator"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// RSIParams configures the RSI mean reversion strategy.
type RSIParams struct {
	Period     int     `yaml:"period" json:"period" jsonschema:"title=RSI Period,minimum=2" validate:"required,min=2"`
	Oversold   float64 `yaml:"oversold" json:"oversold" jsonschema:"title=Oversold Threshold,minimum=0,maximum=100" validate:"gte=0,lte=100"`
	Overbought float64 `yaml:"overbought" json:"overbought" jsonschema:"title=Overbought Threshold,minimum=0,maximum=100" validate:"gte=0,lte=100,gtfield=Oversold"`
	// UseTrendFilter gates entries to bars trading above a long SMA and
	// exits positions when price falls below it.
	UseTrendFilter bool `yaml:"use_trend_filter" json:"use_trend_filter" jsonschema:"title=Use Trend Filter"`
	TrendPeriod    int  `yaml:"trend_period" json:"trend_period" jsonschema:"title=Trend Filter Period,minimum=1" validate:"min=1"`
}

// DefaultRSIParams returns the classic 14-period 30/70 setup.
func DefaultRSIParams() RSIParams {
	return RSIParams{Period: 14, Oversold: 30, Overbought: 70, TrendPeriod: 200}
}

// RSIReversion buys when RSI drops into oversold territory and sells
// when it climbs into overbought territory.
type RSIReversion struct {
	params RSIParams
}

// NewRSIReversion builds the strategy after validating the parameters.
func NewRSIReversion(params RSIParams) (*RSIReversion, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid RSI parameters", err)
	}

	return &RSIReversion{params: params}, nil
}

func (s *RSIReversion) Name() string {
	return fmt.Sprintf("rsi(%d %v/%v)", s.params.Period, s.params.Oversold, s.params.Overbought)
}

func (s *RSIReversion) RequiredHistory() int {
	required := s.params.Period + 10
	if s.params.UseTrendFilter && s.params.TrendPeriod+10 > required {
		required = s.params.TrendPeriod + 10
	}

	return required
}

func (s *RSIReversion) Setup(bars []types.Bar) error {
	if len(bars) < s.RequiredHistory() {
		return errors.NewInsufficientDataError(errors.InsufficientDataError{
			Required: s.RequiredHistory(),
			Actual:   len(bars),
			Message:  "not enough bars for RSI reversion",
		})
	}

	return nil
}

func (s *RSIReversion) Signals(bars []types.Bar) ([]types.SignalType, error) {
	closes := indicator.Closes(bars)
	rsi, err := indicator.RSI(closes, s.params.Period)
	if err != nil {
		return nil, err
	}
	var trend []float64
	if s.params.UseTrendFilter {
		trend, err = indicator.SMA(closes, s.params.TrendPeriod)
		if err != nil {
			return nil, err
		}
	}

	signals := holdSeries(len(bars))
	for i := 1; i < len(bars); i++ {
		buy := crossedBelowLevel(rsi, s.params.Oversold, i)
		sell := crossedAboveLevel(rsi, s.params.Overbought, i)
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
