// Package strategy defines the signal strategy contract and a catalog of
// built-in implementations. A strategy turns a bar series into a series
// of buy, hold and sell signals, one per bar. The signal at position i
// must be computable from bars [0, i] alone, so re-running on a longer
// series never rewrites history.
package strategy

import (
	"github.com/overline-lab/backstrat/internal/types"
)

// Strategy generates trading signals from a bar series.
type Strategy interface {
	// Name returns the strategy's catalog name.
	Name() string
	// RequiredHistory returns the number of bars the strategy needs
	// before its signals are meaningful. The simulator treats this as
	// the warm-up length.
	RequiredHistory() int
	// Setup validates the series against the strategy's requirements
	// before a run starts.
	Setup(bars []types.Bar) error
	// Signals returns one signal per bar, aligned with the input.
	Signals(bars []types.Bar) ([]types.SignalType, error)
}

func holdSeries(n int) []types.SignalType {
	out := make([]types.SignalType, n)
	for i := range out {
		out[i] = types.SignalTypeHold
	}
	return out
}

// crossedAbove reports whether a moved from at-or-below b to above b at
// position i. NaN on either side of the comparison reads as no cross.
func crossedAbove(a, b []float64, i int) bool {
	return i > 0 && a[i-1] <= b[i-1] && a[i] > b[i]
}

func crossedBelow(a, b []float64, i int) bool {
	return i > 0 && a[i-1] >= b[i-1] && a[i] < b[i]
}

func crossedAboveLevel(v []float64, level float64, i int) bool {
	return i > 0 && v[i-1] <= level && v[i] > level
}

func crossedBelowLevel(v []float64, level float64, i int) bool {
	return i > 0 && v[i-1] >= level && v[i] < level
}
