package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// ExitReason records why a position was closed. It replaces exception-style
// control flow: the engine inspects the reason explicitly each bar.
type ExitReason string

const (
	// ExitReasonNone means the position is still open
	ExitReasonNone ExitReason = "none"
	// ExitReasonStopHit means the bar's low breached the stop-loss price
	ExitReasonStopHit ExitReason = "stop_hit"
	// ExitReasonTargetHit means the bar's high breached the take-profit price
	ExitReasonTargetHit ExitReason = "target_hit"
	// ExitReasonSignalExit means the strategy emitted a sell signal
	ExitReasonSignalExit ExitReason = "signal_exit"
	// ExitReasonLiquidated means the position was force-closed at the end of the run
	ExitReasonLiquidated ExitReason = "liquidated"
)

// Terminal reports whether the reason closes a position.
func (r ExitReason) Terminal() bool {
	return r != ExitReasonNone && r != ""
}

// Position is the zero-or-one open holding (long only). Stop and target
// prices are fixed at entry; None disables the trigger.
type Position struct {
	Symbol     string    `csv:"symbol"`
	EntryTime  time.Time `csv:"entry_time"`
	EntryPrice float64   `csv:"entry_price"`
	// Shares is a whole number of shares, kept as float64 for price math
	Shares float64 `csv:"shares"`
	// CostBasis is shares*entry_price plus the entry commission
	CostBasis       float64 `csv:"cost_basis"`
	EntryCommission float64 `csv:"entry_commission"`
	// EntryIndex is the bar index the fill happened on
	EntryIndex int `csv:"entry_index"`

	StopLossPrice   optional.Option[float64] `csv:"-"`
	TakeProfitPrice optional.Option[float64] `csv:"-"`
}

// MarketValue returns the position's mark-to-market value at the given price.
func (p *Position) MarketValue(price float64) float64 {
	value, _ := decimal.NewFromFloat(p.Shares).Mul(decimal.NewFromFloat(price)).Float64()

	return value
}

// UnrealizedPnL returns the profit the position would realize at the given
// price before exit commission.
func (p *Position) UnrealizedPnL(price float64) float64 {
	pnl, _ := decimal.NewFromFloat(p.Shares).
		Mul(decimal.NewFromFloat(price)).
		Sub(decimal.NewFromFloat(p.CostBasis)).
		Float64()

	return pnl
}

// Trade is an immutable closed-position record appended to the ledger when a
// position exits. Never mutated afterward.
type Trade struct {
	Symbol          string     `json:"symbol" yaml:"symbol" csv:"symbol"`
	EntryTime       time.Time  `json:"entry_time" yaml:"entry_time" csv:"entry_time"`
	ExitTime        time.Time  `json:"exit_time" yaml:"exit_time" csv:"exit_time"`
	EntryPrice      float64    `json:"entry_price" yaml:"entry_price" csv:"entry_price"`
	ExitPrice       float64    `json:"exit_price" yaml:"exit_price" csv:"exit_price"`
	Shares          float64    `json:"shares" yaml:"shares" csv:"shares"`
	EntryCommission float64    `json:"entry_commission" yaml:"entry_commission" csv:"entry_commission"`
	ExitCommission  float64    `json:"exit_commission" yaml:"exit_commission" csv:"exit_commission"`
	PnL             float64    `json:"profit_loss" yaml:"profit_loss" csv:"pnl"`
	PnLPct          float64    `json:"profit_loss_pct" yaml:"profit_loss_pct" csv:"pnl_pct"`
	HoldingBars     int        `json:"holding_bars" yaml:"holding_bars" csv:"holding_bars"`
	ExitReason      ExitReason `json:"exit_reason" yaml:"exit_reason" csv:"exit_reason"`
}

// HoldingDays returns the calendar-day span of the trade.
func (t *Trade) HoldingDays() float64 {
	return t.ExitTime.Sub(t.EntryTime).Hours() / 24
}

// IsWin reports whether the trade closed with positive net profit.
func (t *Trade) IsWin() bool {
	return t.PnL > 0
}

// RealizedPnL computes the net profit of a round trip. Proceeds and cost are
// combined with decimal arithmetic so commission cents do not drift on large
// share counts.
func RealizedPnL(entryPrice, exitPrice, shares, entryCommission, exitCommission float64) float64 {
	proceeds := decimal.NewFromFloat(exitPrice).
		Mul(decimal.NewFromFloat(shares)).
		Sub(decimal.NewFromFloat(exitCommission))
	cost := decimal.NewFromFloat(entryPrice).
		Mul(decimal.NewFromFloat(shares)).
		Add(decimal.NewFromFloat(entryCommission))

	pnl, _ := proceeds.Sub(cost).Float64()

	return pnl
}
