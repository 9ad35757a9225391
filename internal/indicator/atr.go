package indicator

import (
	"math"

	"github.com/overline-lab/backstrat/internal/types"
)

// TrueRange computes the per-bar true range: the largest of high-low,
// |high - previous close| and |low - previous close|. The first position
// falls back to high-low because there is no previous close.
func TrueRange(bars []types.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		hl := b.High - b.Low
		if i == 0 {
			out[i] = hl
			continue
		}
		prevClose := bars[i-1].Close
		hc := math.Abs(b.High - prevClose)
		lc := math.Abs(b.Low - prevClose)
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// ATR computes the average true range as a rolling mean of the true
// range. The first period-1 positions are NaN.
func ATR(bars []types.Bar, period int) ([]float64, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return SMA(TrueRange(bars), period)
}
