package backtest

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"

	"github.com/overline-lab/backstrat/internal/types"
)

func TestEvaluateExitPriority(t *testing.T) {
	x := testExecutor(nil)
	position := types.Position{
		Symbol:          "TEST",
		EntryPrice:      100.05,
		Shares:          10,
		StopLossPrice:   optional.Some(95.0),
		TakeProfitPrice: optional.Some(115.0),
	}

	tests := []struct {
		name        string
		bar         types.Bar
		pendingSell bool
		wantReason  types.ExitReason
		wantFill    float64
	}{
		{
			name:       "no trigger holds the position",
			bar:        types.Bar{Open: 100, High: 101, Low: 99, Close: 100.5},
			wantReason: types.ExitReasonNone,
		},
		{
			name:       "low through stop fills at the stop",
			bar:        types.Bar{Open: 96, High: 97, Low: 94.9, Close: 95.2},
			wantReason: types.ExitReasonStopHit,
			wantFill:   95.0,
		},
		{
			name:       "high through target fills at the target",
			bar:        types.Bar{Open: 114, High: 115.5, Low: 113, Close: 115.2},
			wantReason: types.ExitReasonTargetHit,
			wantFill:   115.0,
		},
		{
			name:       "stop beats target when the bar spans both",
			bar:        types.Bar{Open: 100, High: 120, Low: 90, Close: 110},
			wantReason: types.ExitReasonStopHit,
			wantFill:   95.0,
		},
		{
			name:        "stop beats a pending sell",
			bar:         types.Bar{Open: 96, High: 97, Low: 94.9, Close: 95.2},
			pendingSell: true,
			wantReason:  types.ExitReasonStopHit,
			wantFill:    95.0,
		},
		{
			name:        "target beats a pending sell",
			bar:         types.Bar{Open: 114, High: 116, Low: 113, Close: 115.2},
			pendingSell: true,
			wantReason:  types.ExitReasonTargetHit,
			wantFill:    115.0,
		},
		{
			name:        "pending sell fills at the slipped open",
			bar:         types.Bar{Open: 102, High: 103, Low: 101, Close: 102.5},
			pendingSell: true,
			wantReason:  types.ExitReasonSignalExit,
			wantFill:    101.949,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decision := x.evaluateExit(position, tc.bar, tc.pendingSell)

			assert.Equal(t, tc.wantReason, decision.reason)
			if tc.wantReason != types.ExitReasonNone {
				assert.InDelta(t, tc.wantFill, decision.fill, 1e-9)
			}
		})
	}
}

func TestEvaluateExitDisabledTriggers(t *testing.T) {
	x := testExecutor(nil)
	position := types.Position{
		Symbol:          "TEST",
		EntryPrice:      100,
		Shares:          10,
		StopLossPrice:   optional.None[float64](),
		TakeProfitPrice: optional.None[float64](),
	}

	// A bar spanning everything cannot trigger a disabled stop or target.
	wild := types.Bar{Open: 100, High: 1000, Low: 0.01, Close: 50}

	decision := x.evaluateExit(position, wild, false)
	assert.Equal(t, types.ExitReasonNone, decision.reason)

	decision = x.evaluateExit(position, wild, true)
	assert.Equal(t, types.ExitReasonSignalExit, decision.reason)
}
