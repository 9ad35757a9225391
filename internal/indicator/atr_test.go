package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overline-lab/backstrat/internal/types"
)

func ohlc(high, low, close float64) types.Bar {
	return types.Bar{Open: close, High: high, Low: low, Close: close, Volume: 1000}
}

func TestTrueRange(t *testing.T) {
	bars := []types.Bar{
		ohlc(12, 10, 11),
		ohlc(13, 11, 12),
		// gap up against the previous close of 12
		ohlc(20, 18, 19),
	}
	tr := TrueRange(bars)
	assert.InDelta(t, 2, tr[0], 1e-9)
	assert.InDelta(t, 2, tr[1], 1e-9)
	assert.InDelta(t, 8, tr[2], 1e-9)
}

func TestATR(t *testing.T) {
	bars := []types.Bar{
		ohlc(12, 10, 11),
		ohlc(13, 11, 12),
		ohlc(20, 18, 19),
	}
	out, err := ATR(bars, 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[0]))
	assert.InDelta(t, 2, out[1], 1e-9)
	assert.InDelta(t, 5, out[2], 1e-9)
}
