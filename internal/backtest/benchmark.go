package backtest

import "github.com/overline-lab/backstrat/internal/types"

// BuyHoldReturn is the benchmark every run is compared against: commit the
// same position-size fraction at the first close, hold to the last close,
// and measure the return on the whole portfolio including the uninvested
// cash. Commission is charged on both legs; the reference prices are
// closes, so no slippage adjustment applies.
func BuyHoldReturn(bars []types.Bar, initialCapital, positionSize, commissionRate float64) float64 {
	if len(bars) < 2 || initialCapital <= 0 {
		return 0
	}

	firstPrice := bars[0].Close
	lastPrice := bars[len(bars)-1].Close
	if firstPrice <= 0 {
		return 0
	}

	investment := initialCapital * positionSize
	shares := (investment - investment*commissionRate) / firstPrice
	cash := initialCapital - investment

	proceeds := shares * lastPrice
	finalValue := cash + proceeds - proceeds*commissionRate

	return (finalValue - initialCapital) / initialCapital
}
