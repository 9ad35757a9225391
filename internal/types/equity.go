package types

import "time"

// EquityPoint is one mark-to-market observation of the portfolio, recorded
// every bar whether or not anything traded. Value must equal Cash plus
// PositionValue exactly.
type EquityPoint struct {
	Time          time.Time `json:"time" yaml:"time"`
	Value         float64   `json:"portfolio_value" yaml:"portfolio_value"`
	Cash          float64   `json:"cash" yaml:"cash"`
	PositionValue float64   `json:"position_value" yaml:"position_value"`
	// Drawdown is the absolute decline from the running equity peak
	Drawdown float64 `json:"drawdown" yaml:"drawdown"`
	// DrawdownPct is Drawdown divided by the running peak
	DrawdownPct float64 `json:"drawdown_pct" yaml:"drawdown_pct"`
}
