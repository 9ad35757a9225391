package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overline-lab/backstrat/internal/types"
)

func TestADXTrendTradesTheReversal(t *testing.T) {
	s, err := NewADXTrend(ADXParams{Period: 4, Threshold: 10})
	require.NoError(t, err)

	// 15 bars of steady decline followed by a stronger advance
	closes := make([]float64, 40)
	for i := range closes {
		if i < 15 {
			closes[i] = 100 - float64(i)
		} else {
			closes[i] = 85 + 1.5*float64(i-15)
		}
	}
	signals, err := s.Signals(barsFromCloses(closes...))
	require.NoError(t, err)

	firstBuy := -1
	sellsBefore := 0
	for i, sig := range signals {
		if sig == types.SignalTypeBuy {
			firstBuy = i

			break
		}
		if sig == types.SignalTypeSell {
			sellsBefore++
		}
	}
	require.NotEqual(t, -1, firstBuy, "expected a buy once the uptrend strengthens")
	assert.Greater(t, firstBuy, 15, "buy must come after the reversal")
	assert.Positive(t, sellsBefore, "the decline should read as a bearish trend")

	// no entries while flat during the warm-up window
	for i := 0; i < 4; i++ {
		assert.NotEqual(t, types.SignalTypeBuy, signals[i])
	}
}

func TestADXTrendRejectsBadParams(t *testing.T) {
	_, err := NewADXTrend(ADXParams{Period: 1, Threshold: 25})
	require.Error(t, err)

	_, err = NewADXTrend(ADXParams{Period: 14, Threshold: 120})
	require.Error(t, err)
}

func TestADXTrendRequiredHistory(t *testing.T) {
	s, err := NewADXTrend(DefaultADXParams())
	require.NoError(t, err)
	assert.Equal(t, 62, s.RequiredHistory())
}
