package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// SharesForNotional returns the whole number of shares purchasable for the
// given notional at the fill price. Fractional shares are floored away.
func SharesForNotional(notional float64, fillPrice float64) float64 {
	if fillPrice <= 0 || notional <= 0 {
		return 0
	}

	return math.Floor(notional / fillPrice)
}

// MaxAffordableShares trims a desired share count until the total cost
// including proportional commission fits within the available cash. The
// comparison uses decimal arithmetic so it agrees exactly with the charge
// later applied to cash. The loop converges in a handful of steps because
// sizing fractions leave commission as a tiny sliver of the notional.
func MaxAffordableShares(shares float64, fillPrice float64, commissionRate float64, cash float64) float64 {
	if fillPrice <= 0 {
		return 0
	}

	price := decimal.NewFromFloat(fillPrice)
	rate := decimal.NewFromFloat(commissionRate)
	available := decimal.NewFromFloat(cash)

	for shares > 0 {
		notional := decimal.NewFromFloat(shares).Mul(price)
		if notional.Add(notional.Mul(rate)).LessThanOrEqual(available) {
			break
		}

		shares--
	}

	if shares < 0 {
		return 0
	}

	return shares
}
