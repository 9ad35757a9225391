package strategy

import (
	"fmt"

	"github.com/overline-lab/backstrat/internal/indicator"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// MovingAverageParams configures the moving average crossover strategy.
type MovingAverageParams struct {
	Fast int    `yaml:"fast" json:"fast" jsonschema:"title=Fast Period,description=Period of the fast moving average,minimum=1" validate:"required,min=1,ltfield=Slow"`
	Slow int    `yaml:"slow" json:"slow" jsonschema:"title=Slow Period,description=Period of the slow moving average,minimum=2" validate:"required,min=2"`
	Type string `yaml:"type" json:"type" jsonschema:"title=Average Type,enum=sma,enum=ema" validate:"required,oneof=sma ema"`
}

// DefaultMovingAverageParams returns the classic 20/50 SMA setup.
func DefaultMovingAverageParams() MovingAverageParams {
	return MovingAverageParams{Fast: 20, Slow: 50, Type: "sma"}
}

// MovingAverageCrossover buys when the fast average crosses above the
// slow one and sells when it crosses back below.
type MovingAverageCrossover struct {
	params MovingAverageParams
}

// NewMovingAverageCrossover builds the strategy after validating the
// parameters.
func NewMovingAverageCrossover(params MovingAverageParams) (*MovingAverageCrossover, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid moving average parameters", err)
	}

	return &MovingAverageCrossover{params: params}, nil
}

func (s *MovingAverageCrossover) Name() string {
	return fmt.Sprintf("ma_crossover(%d/%d %s)", s.params.Fast, s.params.Slow, s.params.Type)
}

func (s *MovingAverageCrossover) RequiredHistory() int {
	return s.params.Slow + 10
}

func (s *MovingAverageCrossover) Setup(bars []types.Bar) error {
	if len(bars) < s.RequiredHistory() {
		return errors.NewInsufficientDataError(errors.InsufficientDataError{
			Required: s.RequiredHistory(),
			Actual:   len(bars),
			Message:  "not enough bars for moving average crossover",
		})
	}

	return nil
}

func (s *MovingAverageCrossover) Signals(bars []types.Bar) ([]types.SignalType, error) {
	closes := indicator.Closes(bars)
	average := indicator.SMA
	if s.params.Type == "ema" {
		average = indicator.EMA
	}
	fast, err := average(closes, s.params.Fast)
	if err != nil {
		return nil, err
	}
	slow, err := average(closes, s.params.Slow)
	if err != nil {
		return nil, err
	}

	signals := holdSeries(len(bars))
	for i := 1; i < len(bars); i++ {
		if crossedAbove(fast, slow, i) {
			signals[i] = types.SignalTypeBuy
		}
		if crossedBelow(fast, slow, i) {
			signals[i] = types.SignalTypeSell
		}
	}

	return signals, nil
}
