package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

func TestRSIReversionSignals(t *testing.T) {
	s, err := NewRSIReversion(RSIParams{Period: 2, Oversold: 30, Overbought: 70, TrendPeriod: 200})
	require.NoError(t, err)

	// RSI drops through 30 at index 3 and recovers through 70 at index 6
	bars := barsFromCloses(10, 10.2, 10.4, 9.0, 8.5, 9.5, 10.5)
	signals, err := s.Signals(bars)
	require.NoError(t, err)

	expected := []types.SignalType{
		types.SignalTypeHold, types.SignalTypeHold, types.SignalTypeHold,
		types.SignalTypeBuy, types.SignalTypeHold, types.SignalTypeHold, types.SignalTypeSell,
	}
	assert.Equal(t, expected, signals)
}

func TestRSIReversionTrendFilterBlocksCounterTrendEntry(t *testing.T) {
	s, err := NewRSIReversion(RSIParams{
		Period: 2, Oversold: 30, Overbought: 70,
		UseTrendFilter: true, TrendPeriod: 3,
	})
	require.NoError(t, err)

	bars := barsFromCloses(10, 10.2, 10.4, 9.0, 8.5, 9.5, 10.5)
	signals, err := s.Signals(bars)
	require.NoError(t, err)

	// the oversold entry at index 3 happens below the trend average, so
	// the filter turns it into an exit instead
	assert.Equal(t, types.SignalTypeSell, signals[3])
}

func TestRSIReversionRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		params RSIParams
	}{
		{"thresholds inverted", RSIParams{Period: 14, Oversold: 70, Overbought: 30, TrendPeriod: 200}},
		{"thresholds equal", RSIParams{Period: 14, Oversold: 50, Overbought: 50, TrendPeriod: 200}},
		{"period too short", RSIParams{Period: 1, Oversold: 30, Overbought: 70, TrendPeriod: 200}},
		{"threshold out of range", RSIParams{Period: 14, Oversold: 30, Overbought: 170, TrendPeriod: 200}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRSIReversion(tc.params)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeStrategyConfigError))
		})
	}
}

func TestRSIReversionRequiredHistory(t *testing.T) {
	plain, err := NewRSIReversion(DefaultRSIParams())
	require.NoError(t, err)
	assert.Equal(t, 24, plain.RequiredHistory())

	params := DefaultRSIParams()
	params.UseTrendFilter = true
	filtered, err := NewRSIReversion(params)
	require.NoError(t, err)
	assert.Equal(t, 210, filtered.RequiredHistory())
}
