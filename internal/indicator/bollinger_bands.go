package indicator

import (
	"math"

	"github.com/overline-lab/backstrat/pkg/errors"
)

// BollingerSeries holds the middle band and the upper and lower bands at
// the configured number of standard deviations.
type BollingerSeries struct {
	Middle []float64
	Upper  []float64
	Lower  []float64
}

// BollingerBands computes Bollinger bands with an SMA middle band and
// bands offset by stdDev sample standard deviations of the same window.
// The first period-1 positions are NaN.
func BollingerBands(values []float64, period int, stdDev float64) (BollingerSeries, error) {
	if err := validatePeriod(period); err != nil {
		return BollingerSeries{}, err
	}
	if stdDev <= 0 {
		return BollingerSeries{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"standard deviation multiplier must be positive, got %v", stdDev)
	}
	middle, err := SMA(values, period)
	if err != nil {
		return BollingerSeries{}, err
	}
	upper := nanSeries(len(values))
	lower := nanSeries(len(values))
	for i := period - 1; i < len(values); i++ {
		var sq float64
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - middle[i]
			sq += d * d
		}
		sd := 0.0
		if period > 1 {
			sd = math.Sqrt(sq / float64(period-1))
		}
		upper[i] = middle[i] + stdDev*sd
		lower[i] = middle[i] - stdDev*sd
	}
	return BollingerSeries{Middle: middle, Upper: upper, Lower: lower}, nil
}
