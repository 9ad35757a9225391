package strategy

import (
	"fmt"
	"math"

	"github.com/overline-lab/backstrat/internal/indicator"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// ADXParams configures the ADX trend strength strategy.
type ADXParams struct {
	Period    int     `yaml:"period" json:"period" jsonschema:"title=ADX Period,minimum=2" validate:"required,min=2"`
	Threshold float64 `yaml:"threshold" json:"threshold" jsonschema:"title=Trend Strength Threshold,minimum=0,maximum=100" validate:"gte=0,lte=100"`
}

// DefaultADXParams returns the standard 14-period setup with the 25
// strength threshold.
func DefaultADXParams() ADXParams {
	return ADXParams{Period: 14, Threshold: 25}
}

// ADXTrend only trades strong trends: it buys when +DI crosses above -DI
// while ADX is above the threshold and steps aside as soon as the trend
// weakens or the directional indicators flip.
type ADXTrend struct {
	params ADXParams
}

// NewADXTrend builds the strategy after validating the parameters.
func NewADXTrend(params ADXParams) (*ADXTrend, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid ADX parameters", err)
	}

	return &ADXTrend{params: params}, nil
}

func (s *ADXTrend) Name() string {
	return fmt.Sprintf("adx(%d,%v)", s.params.Period, s.params.Threshold)
}

func (s *ADXTrend) RequiredHistory() int {
	return s.params.Period*3 + 20
}

func (s *ADXTrend) Setup(bars []types.Bar) error {
	if len(bars) < s.RequiredHistory() {
		return errors.NewInsufficientDataError(errors.InsufficientDataError{
			Required: s.RequiredHistory(),
			Actual:   len(bars),
			Message:  "not enough bars for ADX trend",
		})
	}

	return nil
}

func (s *ADXTrend) Signals(bars []types.Bar) ([]types.SignalType, error) {
	adx, err := indicator.ADX(bars, s.params.Period)
	if err != nil {
		return nil, err
	}

	signals := holdSeries(len(bars))
	for i := 1; i < len(bars); i++ {
		strong := adx.ADX[i] > s.params.Threshold
		if crossedAbove(adx.PlusDI, adx.MinusDI, i) && strong {
			signals[i] = types.SignalTypeBuy
		}
		// exit as soon as the trend weakens or direction flips
		weak := !math.IsNaN(adx.ADX[i]) && adx.ADX[i] <= s.params.Threshold
		if weak || adx.PlusDI[i] < adx.MinusDI[i] {
			signals[i] = types.SignalTypeSell
		}
	}

	return signals, nil
}
