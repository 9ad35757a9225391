package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overline-lab/backstrat/internal/types"
)

func TestStochastic(t *testing.T) {
	bars := []types.Bar{
		ohlc(10, 8, 9),
		ohlc(11, 9, 11),
		ohlc(12, 10, 10),
		ohlc(10, 10, 10),
	}
	out, err := Stochastic(bars, 2, 2)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(out.K[0]))
	// close at the top of the 2-bar range
	assert.InDelta(t, 100, out.K[1], 1e-9)
	// range 9..12, close 10
	assert.InDelta(t, 100.0/3, out.K[2], 1e-9)
	// close at the bottom of the 10..12 range
	assert.InDelta(t, 0, out.K[3], 1e-9)

	assert.True(t, math.IsNaN(out.D[1]))
	assert.InDelta(t, (100+100.0/3)/2, out.D[2], 1e-9)
	assert.InDelta(t, (100.0/3)/2, out.D[3], 1e-9)
}

func TestStochasticFlatWindowReadsNeutral(t *testing.T) {
	bars := []types.Bar{
		ohlc(10, 10, 10),
		ohlc(10, 10, 10),
		ohlc(10, 10, 10),
	}
	out, err := Stochastic(bars, 2, 1)
	require.NoError(t, err)
	assert.InDelta(t, 50, out.K[1], 1e-9)
	assert.InDelta(t, 50, out.K[2], 1e-9)
}
