package types

import "time"

// RunStatus marks whether a backtest run finished or aborted.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunResult is the sole contract the backtesting core exposes downstream.
// A failed run carries an error message and empty trades/equity; the engine
// never returns a partially-populated completed result.
type RunResult struct {
	// ID is the unique identifier for this backtest run.
	ID string `json:"id" yaml:"id"`
	// Symbol of the instrument the run simulated.
	Symbol string `json:"symbol" yaml:"symbol"`
	// Strategy is the catalog name of the strategy used.
	Strategy string `json:"strategy" yaml:"strategy"`

	Status       RunStatus `json:"status" yaml:"status"`
	ErrorMessage string    `json:"error_message,omitempty" yaml:"error_message,omitempty"`

	Trades      []Trade            `json:"trades" yaml:"trades"`
	EquityCurve []EquityPoint      `json:"equity_curve" yaml:"equity_curve"`
	Metrics     PerformanceMetrics `json:"metrics" yaml:"metrics"`

	// BuyHoldReturn is the benchmark return of buying at the first tradable
	// open and liquidating at the final close under the same cost model.
	BuyHoldReturn float64 `json:"buy_hold_return" yaml:"buy_hold_return"`

	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}

// Completed reports whether the run produced a usable result.
func (r *RunResult) Completed() bool {
	return r.Status == RunStatusCompleted
}

// RunSummary is the compact per-run shape used by batch responses and list
// views.
type RunSummary struct {
	ID           string    `json:"id" yaml:"id"`
	Symbol       string    `json:"symbol" yaml:"symbol"`
	Strategy     string    `json:"strategy" yaml:"strategy"`
	Status       RunStatus `json:"status" yaml:"status"`
	ErrorMessage string    `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	TotalReturn  float64   `json:"total_return" yaml:"total_return"`
	SharpeRatio  float64   `json:"sharpe_ratio" yaml:"sharpe_ratio"`
	MaxDrawdown  float64   `json:"max_drawdown" yaml:"max_drawdown"`
	WinRate      float64   `json:"win_rate" yaml:"win_rate"`
	TotalTrades  int       `json:"total_trades" yaml:"total_trades"`
}

// Summarize collapses a result into its batch-listing shape.
func (r *RunResult) Summarize() RunSummary {
	return RunSummary{
		ID:           r.ID,
		Symbol:       r.Symbol,
		Strategy:     r.Strategy,
		Status:       r.Status,
		ErrorMessage: r.ErrorMessage,
		TotalReturn:  r.Metrics.TotalReturn,
		SharpeRatio:  r.Metrics.SharpeRatio,
		MaxDrawdown:  r.Metrics.MaxDrawdown,
		WinRate:      r.Metrics.WinRate,
		TotalTrades:  r.Metrics.TotalTrades,
	}
}
