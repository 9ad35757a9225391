// Package metrics turns a run's trade ledger and equity curve into the
// summary statistics reported with every backtest. Computation is pure and
// tolerates degenerate inputs: zero trades, flat equity, and an all-winning
// ledger produce defined sentinel values instead of errors.
package metrics

import (
	"math"

	"github.com/overline-lab/backstrat/internal/types"
)

// Options control annualization of the ratio statistics.
type Options struct {
	// RiskFreeRate is the annual risk-free rate used for excess returns.
	RiskFreeRate float64
	// PeriodsPerYear is the number of bars per year, 252 for daily data.
	PeriodsPerYear float64
}

// DefaultOptions assumes daily bars and a 2% annual risk-free rate.
func DefaultOptions() Options {
	return Options{
		RiskFreeRate:   0.02,
		PeriodsPerYear: 252,
	}
}

// Compute derives the full statistics set from a completed run. Trades and
// equity are read-only inputs; the ledger must already include the forced
// liquidation so realized P&L and the final equity point agree.
//
// ProfitFactor is +Inf when no trade lost money, which is the one non-finite
// sentinel callers must scrub before JSON encoding (see SafeFloat).
func Compute(trades []types.Trade, equity []types.EquityPoint, initialCapital float64, opts Options) types.PerformanceMetrics {
	if opts.PeriodsPerYear <= 0 {
		opts.PeriodsPerYear = DefaultOptions().PeriodsPerYear
	}

	m := types.PerformanceMetrics{
		InitialCapital: initialCapital,
		FinalEquity:    initialCapital,
	}
	if len(equity) > 0 {
		m.FinalEquity = equity[len(equity)-1].Value
	}

	if initialCapital > 0 {
		m.TotalReturn = (m.FinalEquity - initialCapital) / initialCapital

		if len(equity) >= 2 {
			elapsedDays := equity[len(equity)-1].Time.Sub(equity[0].Time).Hours() / 24
			if elapsedDays > 0 {
				m.CAGR = math.Pow(m.FinalEquity/initialCapital, 365/elapsedDays) - 1
			}
		}
	}

	returns := barReturns(equity)
	annualizer := math.Sqrt(opts.PeriodsPerYear)
	excessMean := mean(returns) - opts.RiskFreeRate/opts.PeriodsPerYear

	std := sampleStd(returns)
	m.Volatility = std * annualizer
	if std > 0 {
		m.SharpeRatio = excessMean / std * annualizer
	}

	var negatives []float64
	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	if downside := sampleStd(negatives); downside > 0 {
		m.SortinoRatio = excessMean / downside * annualizer
	}

	m.MaxDrawdown, m.AvgDrawdown, m.MaxDrawdownDuration = drawdownStats(equity)

	fillTradeStats(&m, trades)

	return m
}

func fillTradeStats(m *types.PerformanceMetrics, trades []types.Trade) {
	m.TotalTrades = len(trades)

	var grossProfit, grossLoss float64
	var holdingDays float64
	for i := range trades {
		t := &trades[i]
		holdingDays += t.HoldingDays()

		switch {
		case t.PnL > 0:
			m.WinningTrades++
			grossProfit += t.PnL
			if t.PnL > m.LargestWin {
				m.LargestWin = t.PnL
			}
		case t.PnL < 0:
			m.LosingTrades++
			grossLoss += t.PnL
			if t.PnL < m.LargestLoss {
				m.LargestLoss = t.PnL
			}
		}
	}

	if m.TotalTrades > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades)
		m.AvgHoldingDays = holdingDays / float64(m.TotalTrades)
	}
	if m.WinningTrades > 0 {
		m.AvgWin = grossProfit / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AvgLoss = grossLoss / float64(m.LosingTrades)
	}

	if grossLoss < 0 {
		m.ProfitFactor = grossProfit / -grossLoss
	} else {
		m.ProfitFactor = math.Inf(1)
	}

	m.Expectancy = m.WinRate*m.AvgWin + (1-m.WinRate)*m.AvgLoss
}

// barReturns is the simple percent change between consecutive equity points.
func barReturns(equity []types.EquityPoint) []float64 {
	if len(equity) < 2 {
		return nil
	}

	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Value
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (equity[i].Value-prev)/prev)
	}

	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	var sum float64
	for _, x := range xs {
		sum += x
	}

	return sum / float64(len(xs))
}

// sampleStd is the n-1 standard deviation, 0 when fewer than two samples.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}

	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}

	return math.Sqrt(ss / float64(len(xs)-1))
}

// SafeFloat maps NaN and ±Inf to nil so the value encodes as JSON null
// instead of failing the whole response. Finite values pass through.
func SafeFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return &v
}
