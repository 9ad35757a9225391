package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawdownStats(t *testing.T) {
	tests := []struct {
		name        string
		values      []float64
		maxDD       float64
		avgDD       float64
		maxDuration int
	}{
		{
			name: "empty",
		},
		{
			name:   "monotonic rise never draws down",
			values: []float64{100, 101, 105, 120},
		},
		{
			name:        "single dip",
			values:      []float64{100, 80, 100},
			maxDD:       0.2,
			avgDD:       0.2,
			maxDuration: 1,
		},
		{
			name:        "two underwater stretches",
			values:      []float64{100, 120, 90, 95, 130, 117},
			maxDD:       0.25,
			avgDD:       (0.25 + 25.0/120 + 0.1) / 3,
			maxDuration: 2,
		},
		{
			name:        "never recovers",
			values:      []float64{100, 90, 80, 70},
			maxDD:       0.3,
			avgDD:       (0.1 + 0.2 + 0.3) / 3,
			maxDuration: 3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			maxDD, avgDD, duration := drawdownStats(equityFromValues(tc.values...))

			assert.InDelta(t, tc.maxDD, maxDD, 1e-9)
			assert.InDelta(t, tc.avgDD, avgDD, 1e-9)
			assert.Equal(t, tc.maxDuration, duration)
		})
	}
}
