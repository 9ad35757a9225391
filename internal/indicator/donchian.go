package indicator

import "github.com/overline-lab/backstrat/internal/types"

// DonchianSeries holds the channel bounds and their midline.
type DonchianSeries struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// DonchianChannels computes Donchian channels: the highest high and
// lowest low over the given period, with the midline halfway between
// them. The first period-1 positions are NaN.
func DonchianChannels(bars []types.Bar, period int) (DonchianSeries, error) {
	if err := validatePeriod(period); err != nil {
		return DonchianSeries{}, err
	}
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
	}
	upper := rollingMax(highs, period)
	lower := rollingMin(lows, period)
	middle := nanSeries(len(bars))
	for i := period - 1; i < len(bars); i++ {
		middle[i] = (upper[i] + lower[i]) / 2
	}
	return DonchianSeries{Upper: upper, Middle: middle, Lower: lower}, nil
}
