package backtest

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"

	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/internal/utils"
)

// executor applies the cost model: slippage on open-price and liquidation
// fills, commission on notional at entry and exit, whole-share sizing capped
// by available cash. All cash movements go through decimal arithmetic so the
// affordability check and the charge agree exactly.
type executor struct {
	commissionRate float64
	slippageRate   float64
	positionSize   float64
	stopLossPct    float64
	takeProfitPct  float64
}

func newExecutor(config Config) executor {
	return executor{
		commissionRate: config.CommissionRate,
		slippageRate:   config.SlippageRate,
		positionSize:   config.PositionSize,
		stopLossPct:    config.StopLossPct,
		takeProfitPct:  config.TakeProfitPct,
	}
}

// buyFill adjusts a reference price upward by the slippage rate.
func (x executor) buyFill(price float64) float64 {
	fill, _ := decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(x.slippageRate))).
		Float64()

	return fill
}

// sellFill adjusts a reference price downward by the slippage rate.
func (x executor) sellFill(price float64) float64 {
	fill, _ := decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(x.slippageRate))).
		Float64()

	return fill
}

// stopPrice fixes the stop at entry time; a zero configured pct disables it.
func (x executor) stopPrice(entryFill float64) optional.Option[float64] {
	if x.stopLossPct <= 0 {
		return optional.None[float64]()
	}

	price, _ := decimal.NewFromFloat(entryFill).
		Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(x.stopLossPct))).
		Float64()

	return optional.Some(price)
}

// targetPrice fixes the take-profit at entry time; zero disables it.
func (x executor) targetPrice(entryFill float64) optional.Option[float64] {
	if x.takeProfitPct <= 0 {
		return optional.None[float64]()
	}

	price, _ := decimal.NewFromFloat(entryFill).
		Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(x.takeProfitPct))).
		Float64()

	return optional.Some(price)
}

// enterLong opens a position at the bar's open. The desired notional is the
// configured fraction of cash; shares are floored to whole units and trimmed
// until notional plus commission fits inside cash. ok is false when sizing
// rounds to zero shares, which leaves the state untouched.
func (x executor) enterLong(state PortfolioState, bar types.Bar, index int) (next PortfolioState, ok bool) {
	fill := x.buyFill(bar.Open)

	shares := utils.SharesForNotional(state.Cash*x.positionSize, fill)
	shares = utils.MaxAffordableShares(shares, fill, x.commissionRate, state.Cash)
	if shares <= 0 {
		return state, false
	}

	notional := decimal.NewFromFloat(shares).Mul(decimal.NewFromFloat(fill))
	commission := notional.Mul(decimal.NewFromFloat(x.commissionRate))

	cash, _ := decimal.NewFromFloat(state.Cash).Sub(notional).Sub(commission).Float64()
	costBasis, _ := notional.Add(commission).Float64()
	entryCommission, _ := commission.Float64()

	position := types.Position{
		Symbol:          bar.Symbol,
		EntryTime:       bar.Time,
		EntryPrice:      fill,
		Shares:          shares,
		CostBasis:       costBasis,
		EntryCommission: entryCommission,
		EntryIndex:      index,
		StopLossPrice:   x.stopPrice(fill),
		TakeProfitPrice: x.targetPrice(fill),
	}

	state.Cash = cash
	state.Position = optional.Some(position)

	return state, true
}

// closeAt closes the open position at the given fill price, charging the
// exit commission and returning the resulting trade. The caller owns the
// ledger the trade is appended to.
func (x executor) closeAt(state PortfolioState, position types.Position, exitTime time.Time, exitIndex int, fill float64, reason types.ExitReason) (PortfolioState, types.Trade) {
	proceeds := decimal.NewFromFloat(position.Shares).Mul(decimal.NewFromFloat(fill))
	commission := proceeds.Mul(decimal.NewFromFloat(x.commissionRate))
	exitCommission, _ := commission.Float64()

	cash, _ := decimal.NewFromFloat(state.Cash).Add(proceeds).Sub(commission).Float64()

	pnl := types.RealizedPnL(position.EntryPrice, fill, position.Shares, position.EntryCommission, exitCommission)

	var pnlPct float64
	if position.CostBasis > 0 {
		pnlPct = pnl / position.CostBasis
	}

	trade := types.Trade{
		Symbol:          position.Symbol,
		EntryTime:       position.EntryTime,
		ExitTime:        exitTime,
		EntryPrice:      position.EntryPrice,
		ExitPrice:       fill,
		Shares:          position.Shares,
		EntryCommission: position.EntryCommission,
		ExitCommission:  exitCommission,
		PnL:             pnl,
		PnLPct:          pnlPct,
		HoldingBars:     exitIndex - position.EntryIndex,
		ExitReason:      reason,
	}

	state.Cash = cash
	state.Position = optional.None[types.Position]()

	return state, trade
}
