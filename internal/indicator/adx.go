package indicator

import (
	"math"

	"github.com/overline-lab/backstrat/internal/types"
)

// ADXSeries holds the average directional index and the directional
// indicator lines it is derived from.
type ADXSeries struct {
	ADX     []float64
	PlusDI  []float64
	MinusDI []float64
}

// ADX computes the average directional index with rolling mean
// smoothing of the directional movements and the true range. The
// directional indicators settle after period bars and the ADX line
// after roughly twice that.
func ADX(bars []types.Bar, period int) (ADXSeries, error) {
	if err := validatePeriod(period); err != nil {
		return ADXSeries{}, err
	}
	n := len(bars)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}
	atr, err := ATR(bars, period)
	if err != nil {
		return ADXSeries{}, err
	}
	plusAvg, err := SMA(plusDM, period)
	if err != nil {
		return ADXSeries{}, err
	}
	minusAvg, err := SMA(minusDM, period)
	if err != nil {
		return ADXSeries{}, err
	}

	plusDI := nanSeries(n)
	minusDI := nanSeries(n)
	dx := nanSeries(n)
	for i := period - 1; i < n; i++ {
		if atr[i] == 0 {
			plusDI[i] = 0
			minusDI[i] = 0
		} else {
			plusDI[i] = 100 * plusAvg[i] / atr[i]
			minusDI[i] = 100 * minusAvg[i] / atr[i]
		}
		sum := plusDI[i] + minusDI[i]
		if sum == 0 {
			dx[i] = 0
			continue
		}
		dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
	}
	adx, err := SMA(dx, period)
	if err != nil {
		return ADXSeries{}, err
	}
	return ADXSeries{ADX: adx, PlusDI: plusDI, MinusDI: minusDI}, nil
}
