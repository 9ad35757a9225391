package strategy

import (
	"fmt"

	"github.com/overline-lab/backstrat/internal/indicator"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// MACDParams configures the MACD momentum strategy.
type MACDParams struct {
	Fast   int `yaml:"fast" json:"fast" jsonschema:"title=Fast EMA Period,minimum=1" validate:"required,min=1,ltfield=Slow"`
	Slow   int `yaml:"slow" json:"slow" jsonschema:"title=Slow EMA Period,minimum=2" validate:"required,min=2"`
	Signal int `yaml:"signal" json:"signal" jsonschema:"title=Signal EMA Period,minimum=1" validate:"required,min=1"`
	// UseZeroLineFilter only takes entries while the MACD line is above
	// zero and also exits when it drops below zero.
	UseZeroLineFilter bool `yaml:"use_zero_line_filter" json:"use_zero_line_filter" jsonschema:"title=Use Zero Line Filter"`
	UseTrendFilter    bool `yaml:"use_trend_filter" json:"use_trend_filter" jsonschema:"title=Use Trend Filter"`
	TrendPeriod       int  `yaml:"trend_period" json:"trend_period" jsonschema:"title=Trend Filter Period,minimum=1" validate:"min=1"`
}

// DefaultMACDParams returns the standard 12/26/9 setup.
func DefaultMACDParams() MACDParams {
	return MACDParams{Fast: 12, Slow: 26, Signal: 9, TrendPeriod: 200}
}

// MACDMomentum buys when the MACD line crosses above its signal line and
// sells when it crosses back below.
type MACDMomentum struct {
	params MACDParams
}

// NewMACDMomentum builds the strategy after validating the parameters.
func NewMACDMomentum(params MACDParams) (*MACDMomentum, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid MACD parameters", err)
	}

	return &MACDMomentum{params: params}, nil
}

func (s *MACDMomentum) Name() string {
	return fmt.Sprintf("macd(%d/%d/%d)", s.params.Fast, s.params.Slow, s.params.Signal)
}

func (s *MACDMomentum) RequiredHistory() int {
	required := s.params.Slow + s.params.Signal + 20
	if s.params.UseTrendFilter && s.params.TrendPeriod+10 > required {
		required = s.params.TrendPeriod + 10
	}

	return required
}

func (s *MACDMomentum) Setup(bars []types.Bar) error {
	if len(bars) < s.RequiredHistory() {
		return errors.NewInsufficientDataError(errors.InsufficientDataError{
			Required: s.RequiredHistory(),
			Actual:   len(bars),
			Message:  "not enough bars for MACD momentum",
		})
	}

	return nil
}

func (s *MACDMomentum) Signals(bars []types.Bar) ([]types.SignalType, error) {
	closes := indicator.Closes(bars)
	macd, err := indicator.MACD(closes, s.params.Fast, s.params.Slow, s.params.Signal)
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
		buy := crossedAbove(macd.Line, macd.Signal, i)
		sell := crossedBelow(macd.Line, macd.Signal, i)
		if s.params.UseZeroLineFilter {
			buy = buy && macd.Line[i] > 0
			sell = sell || crossedBelowLevel(macd.Line, 0, i)
		}
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
