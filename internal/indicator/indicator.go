// Package indicator implements technical indicators as pure series
// transforms. Every function maps an input series to an output series of
// the same length, where positions that fall inside the warm-up window of
// the indicator carry NaN. Output position i depends only on input
// positions [0, i], so the series can be recomputed bar by bar without
// changing earlier values.
package indicator

import (
	"math"

	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// Closes extracts the close series from a bar series.
func Closes(bars []types.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

func validatePeriod(period int) error {
	if period <= 0 {
		return errors.Newf(errors.ErrCodeIndicatorPeriod, "period must be positive, got %d", period)
	}
	return nil
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// rollingSum writes the rolling window sum of values into a fresh series.
// Positions before the first full window are NaN. Windows are summed
// individually rather than slid, so a NaN inside one window only marks
// that window and later windows recover.
func rollingSum(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	for i := period - 1; i < len(values); i++ {
		var sum float64
		for _, v := range values[i-period+1 : i+1] {
			sum += v
		}
		out[i] = sum
	}
	return out
}

// rollingMax computes the rolling window maximum. Positions before the
// first full window are NaN.
func rollingMax(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	for i := period - 1; i < len(values); i++ {
		max := values[i-period+1]
		for _, v := range values[i-period+2 : i+1] {
			if v > max {
				max = v
			}
		}
		out[i] = max
	}
	return out
}

// rollingMin computes the rolling window minimum. Positions before the
// first full window are NaN.
func rollingMin(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	for i := period - 1; i < len(values); i++ {
		min := values[i-period+1]
		for _, v := range values[i-period+2 : i+1] {
			if v < min {
				min = v
			}
		}
		out[i] = min
	}
	return out
}
