package indicator

import "github.com/overline-lab/backstrat/internal/types"

// StochasticSeries holds the %K line and its %D smoothing.
type StochasticSeries struct {
	K []float64
	D []float64
}

// Stochastic computes the stochastic oscillator. %K measures where the
// close sits inside the high-low range of the last kPeriod bars, %D is
// an SMA of %K over dPeriod. A window with no range reads 50. %K is NaN
// for the first kPeriod-1 positions and %D for dPeriod-1 more.
func Stochastic(bars []types.Bar, kPeriod, dPeriod int) (StochasticSeries, error) {
	if err := validatePeriod(kPeriod); err != nil {
		return StochasticSeries{}, err
	}
	if err := validatePeriod(dPeriod); err != nil {
		return StochasticSeries{}, err
	}
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
	}
	highest := rollingMax(highs, kPeriod)
	lowest := rollingMin(lows, kPeriod)

	k := nanSeries(len(bars))
	for i := kPeriod - 1; i < len(bars); i++ {
		span := highest[i] - lowest[i]
		if span == 0 {
			k[i] = 50
			continue
		}
		k[i] = 100 * (bars[i].Close - lowest[i]) / span
	}
	d, err := SMA(k, dPeriod)
	if err != nil {
		return StochasticSeries{}, err
	}
	return StochasticSeries{K: k, D: d}, nil
}
