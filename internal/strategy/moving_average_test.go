package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

func barsFromCloses(closes ...float64) []types.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{
			Symbol: "TEST",
			Time:   start.Add(time.Duration(i) * 24 * time.Hour),
			Open:   c,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: 1000,
		}
	}

	return bars
}

func TestMovingAverageCrossoverSignals(t *testing.T) {
	s, err := NewMovingAverageCrossover(MovingAverageParams{Fast: 2, Slow: 3, Type: "sma"})
	require.NoError(t, err)

	// fast SMA overtakes the slow at index 4 and falls back below at 7
	bars := barsFromCloses(10, 9, 8, 7, 10, 14, 9, 5)
	signals, err := s.Signals(bars)
	require.NoError(t, err)
	require.Len(t, signals, len(bars))

	expected := []types.SignalType{
		types.SignalTypeHold, types.SignalTypeHold, types.SignalTypeHold, types.SignalTypeHold,
		types.SignalTypeBuy, types.SignalTypeHold, types.SignalTypeHold, types.SignalTypeSell,
	}
	assert.Equal(t, expected, signals)
}

func TestMovingAverageCrossoverEMARisingSeries(t *testing.T) {
	s, err := NewMovingAverageCrossover(MovingAverageParams{Fast: 2, Slow: 4, Type: "ema"})
	require.NoError(t, err)

	signals, err := s.Signals(barsFromCloses(1, 2, 3, 4, 5))
	require.NoError(t, err)

	buys, sells := 0, 0
	for _, sig := range signals {
		switch sig {
		case types.SignalTypeBuy:
			buys++
		case types.SignalTypeSell:
			sells++
		}
	}
	assert.Equal(t, 1, buys)
	assert.Zero(t, sells)
}

func TestMovingAverageCrossoverRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		params MovingAverageParams
	}{
		{"fast not below slow", MovingAverageParams{Fast: 50, Slow: 20, Type: "sma"}},
		{"equal periods", MovingAverageParams{Fast: 20, Slow: 20, Type: "sma"}},
		{"unknown type", MovingAverageParams{Fast: 10, Slow: 20, Type: "wma"}},
		{"zero fast", MovingAverageParams{Slow: 20, Type: "sma"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMovingAverageCrossover(tc.params)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeStrategyConfigError))
		})
	}
}

func TestMovingAverageCrossoverSetup(t *testing.T) {
	s, err := NewMovingAverageCrossover(DefaultMovingAverageParams())
	require.NoError(t, err)
	assert.Equal(t, 60, s.RequiredHistory())

	err = s.Setup(barsFromCloses(1, 2, 3))
	require.Error(t, err)
	assert.True(t, errors.IsInsufficientDataError(err))

	long := make([]float64, 60)
	for i := range long {
		long[i] = float64(i)
	}
	assert.NoError(t, s.Setup(barsFromCloses(long...)))
}
