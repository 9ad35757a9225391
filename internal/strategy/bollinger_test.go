package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overline-lab/backstrat/internal/types"
)

func TestBollingerReversionSignals(t *testing.T) {
	s, err := NewBollingerReversion(BollingerParams{Period: 3, StdDev: 1, ExitAtMiddle: true, TrendPeriod: 200})
	require.NoError(t, err)

	bars := barsFromCloses(100, 100, 100, 90, 95, 101)
	signals, err := s.Signals(bars)
	require.NoError(t, err)

	expected := []types.SignalType{
		types.SignalTypeHold,
		types.SignalTypeHold,
		// a flat window collapses the bands onto the close, which reads
		// as an upper band touch
		types.SignalTypeSell,
		// plunge through the lower band
		types.SignalTypeBuy,
		// recovery to the middle band
		types.SignalTypeSell,
		// stretch above the upper band
		types.SignalTypeSell,
	}
	assert.Equal(t, expected, signals)
}

func TestBollingerReversionWithoutMiddleExit(t *testing.T) {
	s, err := NewBollingerReversion(BollingerParams{Period: 3, StdDev: 1, ExitAtMiddle: false, TrendPeriod: 200})
	require.NoError(t, err)

	signals, err := s.Signals(barsFromCloses(100, 100, 100, 90, 95, 101))
	require.NoError(t, err)

	// without middle band exits the recovery bar stays a hold
	assert.Equal(t, types.SignalTypeBuy, signals[3])
	assert.Equal(t, types.SignalTypeHold, signals[4])
	assert.Equal(t, types.SignalTypeSell, signals[5])
}

func TestBollingerReversionRejectsBadParams(t *testing.T) {
	_, err := NewBollingerReversion(BollingerParams{Period: 1, StdDev: 2, TrendPeriod: 200})
	require.Error(t, err)

	_, err = NewBollingerReversion(BollingerParams{Period: 20, StdDev: 0, TrendPeriod: 200})
	require.Error(t, err)
}

func TestBollingerReversionRequiredHistory(t *testing.T) {
	s, err := NewBollingerReversion(DefaultBollingerParams())
	require.NoError(t, err)
	assert.Equal(t, 40, s.RequiredHistory())
}
