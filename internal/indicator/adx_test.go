package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overline-lab/backstrat/internal/types"
)

func TestADXTrendingSeries(t *testing.T) {
	bars := make([]types.Bar, 40)
	for i := range bars {
		base := 100 + 2*float64(i)
		bars[i] = types.Bar{Open: base, High: base + 1, Low: base - 1, Close: base + 0.5}
	}
	out, err := ADX(bars, 5)
	require.NoError(t, err)

	last := len(bars) - 1
	assert.False(t, math.IsNaN(out.ADX[last]))
	assert.Greater(t, out.PlusDI[last], out.MinusDI[last])
	assert.GreaterOrEqual(t, out.ADX[last], 0.0)
	assert.LessOrEqual(t, out.ADX[last], 100.0)
}

func TestADXWarmup(t *testing.T) {
	bars := make([]types.Bar, 12)
	for i := range bars {
		base := 100 + float64(i)
		bars[i] = types.Bar{Open: base, High: base + 1, Low: base - 1, Close: base}
	}
	out, err := ADX(bars, 5)
	require.NoError(t, err)
	// the first ADX value needs a full window of DX values
	for i := 0; i < 2*5-2; i++ {
		assert.True(t, math.IsNaN(out.ADX[i]), "index %d", i)
	}
	assert.False(t, math.IsNaN(out.ADX[2*5-2]))
}
