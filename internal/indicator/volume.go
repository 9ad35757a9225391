package indicator

import "github.com/overline-lab/backstrat/internal/types"

// OBV computes on-balance volume: a running total that adds the bar
// volume when the close rises and subtracts it when the close falls.
// Every position is defined; the first is zero.
func OBV(bars []types.Bar) []float64 {
	out := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] = out[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] = out[i-1] - bars[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// VWMA computes the volume weighted moving average of closes over the
// given period. A window with zero total volume falls back to the plain
// mean of its closes. The first period-1 positions are NaN.
func VWMA(bars []types.Bar, period int) ([]float64, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	out := nanSeries(len(bars))
	for i := period - 1; i < len(bars); i++ {
		var weighted, volume, plain float64
		for _, b := range bars[i-period+1 : i+1] {
			weighted += b.Close * b.Volume
			volume += b.Volume
			plain += b.Close
		}
		if volume == 0 {
			out[i] = plain / float64(period)
			continue
		}
		out[i] = weighted / volume
	}
	return out, nil
}
