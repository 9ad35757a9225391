package strategy

import (
	"fmt"

	"github.com/overline-lab/backstrat/internal/indicator"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// DonchianParams configures the Donchian channel breakout strategy.
type DonchianParams struct {
	EntryPeriod int `yaml:"entry_period" json:"entry_period" jsonschema:"title=Entry Channel Period,minimum=1" validate:"required,min=1"`
	ExitPeriod  int `yaml:"exit_period" json:"exit_period" jsonschema:"title=Exit Channel Period,minimum=1" validate:"required,min=1"`
	// ExitOnMiddle also sells when price falls back to the entry
	// channel midline.
	ExitOnMiddle bool `yaml:"exit_on_middle" json:"exit_on_middle" jsonschema:"title=Exit On Middle Channel"`
}

// DefaultDonchianParams returns the classic turtle 20/10 setup.
func DefaultDonchianParams() DonchianParams {
	return DonchianParams{EntryPeriod: 20, ExitPeriod: 10}
}

// DonchianBreakout buys when the close breaks above the previous bar's
// entry channel high and sells when it breaks below the previous bar's
// exit channel low.
type DonchianBreakout struct {
	params DonchianParams
}

// NewDonchianBreakout builds the strategy after validating the
// parameters.
func NewDonchianBreakout(params DonchianParams) (*DonchianBreakout, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid Donchian parameters", err)
	}

	return &DonchianBreakout{params: params}, nil
}

func (s *DonchianBreakout) Name() string {
	return fmt.Sprintf("donchian(%d/%d)", s.params.EntryPeriod, s.params.ExitPeriod)
}

func (s *DonchianBreakout) RequiredHistory() int {
	required := s.params.EntryPeriod + 20
	if s.params.ExitPeriod+20 > required {
		required = s.params.ExitPeriod + 20
	}

	return required
}

func (s *DonchianBreakout) Setup(bars []types.Bar) error {
	if len(bars) < s.RequiredHistory() {
		return errors.NewInsufficientDataError(errors.InsufficientDataError{
			Required: s.RequiredHistory(),
			Actual:   len(bars),
			Message:  "not enough bars for Donchian breakout",
		})
	}

	return nil
}

func (s *DonchianBreakout) Signals(bars []types.Bar) ([]types.SignalType, error) {
	entry, err := indicator.DonchianChannels(bars, s.params.EntryPeriod)
	if err != nil {
		return nil, err
	}
	exit := entry
	if s.params.ExitPeriod != s.params.EntryPeriod {
		exit, err = indicator.DonchianChannels(bars, s.params.ExitPeriod)
		if err != nil {
			return nil, err
		}
	}

	signals := holdSeries(len(bars))
	for i := 1; i < len(bars); i++ {
		// breakouts compare against the channel as of the previous bar,
		// otherwise the bar that sets a new high can never break out
		buy := bars[i].Close > entry.Upper[i-1]
		sell := bars[i].Close < exit.Lower[i-1]
		if s.params.ExitOnMiddle {
			sell = sell || bars[i].Close <= entry.Middle[i]
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
