package strategy

import (
	"fmt"

	"github.com/overline-lab/backstrat/internal/indicator"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// BollingerParams configures the Bollinger band reversion strategy.
type BollingerParams struct {
	Period int     `yaml:"period" json:"period" jsonschema:"title=Band Period,minimum=2" validate:"required,min=2"`
	StdDev float64 `yaml:"std_dev" json:"std_dev" jsonschema:"title=Standard Deviations,minimum=0" validate:"required,gt=0"`
	// ExitAtMiddle also sells when price recovers to the middle band
	// instead of waiting for the upper band.
	ExitAtMiddle   bool `yaml:"exit_at_middle" json:"exit_at_middle" jsonschema:"title=Exit At Middle Band"`
	UseTrendFilter bool `yaml:"use_trend_filter" json:"use_trend_filter" jsonschema:"title=Use Trend Filter"`
	TrendPeriod    int  `yaml:"trend_period" json:"trend_period" jsonschema:"title=Trend Filter Period,minimum=1" validate:"min=1"`
}

// DefaultBollingerParams returns the standard 20-period 2-sigma setup
// with middle band exits.
func DefaultBollingerParams() BollingerParams {
	return BollingerParams{Period: 20, StdDev: 2.0, ExitAtMiddle: true, TrendPeriod: 200}
}

// BollingerReversion buys when price stretches below the lower band and
// sells when it stretches above the upper band or recovers to the middle.
type BollingerReversion struct {
	params BollingerParams
}

// NewBollingerReversion builds the strategy after validating the
// parameters.
func NewBollingerReversion(params BollingerParams) (*BollingerReversion, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid Bollinger parameters", err)
	}

	return &BollingerReversion{params: params}, nil
}

func (s *BollingerReversion) Name() string {
	return fmt.Sprintf("bollinger(%d,%v)", s.params.Period, s.params.StdDev)
}

func (s *BollingerReversion) RequiredHistory() int {
	required := s.params.Period + 20
	if s.params.UseTrendFilter && s.params.TrendPeriod+10 > required {
		required = s.params.TrendPeriod + 10
	}

	return required
}

func (s *BollingerReversion) Setup(bars []types.Bar) error {
	if len(bars) < s.RequiredHistory() {
		return errors.NewInsufficientDataError(errors.InsufficientDataError{
			Required: s.RequiredHistory(),
			Actual:   len(bars),
			Message:  "not enough bars for Bollinger reversion",
		})
	}

	return nil
}

func (s *BollingerReversion) Signals(bars []types.Bar) ([]types.SignalType, error) {
	closes := indicator.Closes(bars)
	bands, err := indicator.BollingerBands(closes, s.params.Period, s.params.StdDev)
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
		buy := closes[i] <= bands.Lower[i]
		sell := closes[i] >= bands.Upper[i]
		if s.params.ExitAtMiddle {
			sell = sell || (closes[i-1] < bands.Middle[i] && closes[i] >= bands.Middle[i])
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
