package types

// PerformanceMetrics is the derived, read-only summary of a completed run,
// computed once from the trade ledger and equity curve. Degenerate cases
// (zero trades, zero volatility) produce defined values, never errors;
// ProfitFactor is +Inf when there are winners but no losers and callers
// serializing to JSON are expected to scrub non-finite values.
type PerformanceMetrics struct {
	TotalReturn float64 `json:"total_return" yaml:"total_return"`
	CAGR        float64 `json:"cagr" yaml:"cagr"`

	TotalTrades   int     `json:"total_trades" yaml:"total_trades"`
	WinningTrades int     `json:"winning_trades" yaml:"winning_trades"`
	LosingTrades  int     `json:"losing_trades" yaml:"losing_trades"`
	WinRate       float64 `json:"win_rate" yaml:"win_rate"`
	ProfitFactor  float64 `json:"profit_factor" yaml:"profit_factor"`
	Expectancy    float64 `json:"expectancy" yaml:"expectancy"`

	AvgWin      float64 `json:"avg_win" yaml:"avg_win"`
	AvgLoss     float64 `json:"avg_loss" yaml:"avg_loss"`
	LargestWin  float64 `json:"largest_win" yaml:"largest_win"`
	LargestLoss float64 `json:"largest_loss" yaml:"largest_loss"`

	SharpeRatio  float64 `json:"sharpe_ratio" yaml:"sharpe_ratio"`
	SortinoRatio float64 `json:"sortino_ratio" yaml:"sortino_ratio"`
	Volatility   float64 `json:"volatility" yaml:"volatility"`

	MaxDrawdown float64 `json:"max_drawdown" yaml:"max_drawdown"`
	AvgDrawdown float64 `json:"avg_drawdown" yaml:"avg_drawdown"`
	// MaxDrawdownDuration is measured in bars of the equity curve.
	MaxDrawdownDuration int `json:"max_drawdown_duration" yaml:"max_drawdown_duration"`

	AvgHoldingDays float64 `json:"avg_holding_days" yaml:"avg_holding_days"`

	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
	FinalEquity    float64 `json:"final_equity" yaml:"final_equity"`
}
