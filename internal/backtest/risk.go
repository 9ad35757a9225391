package backtest

import "github.com/overline-lab/backstrat/internal/types"

// exitDecision is the outcome of the per-bar risk check for an open
// position. A reason of ExitReasonNone leaves the position open.
type exitDecision struct {
	reason types.ExitReason
	fill   float64
}

// evaluateExit applies the fixed exit priority on the current bar: intrabar
// stop-loss first, then intrabar take-profit, then a sell signal pending
// from the previous bar, which fills at this bar's open. First match wins,
// so a bar whose range spans both trigger prices always resolves as a stop.
// Stop and target fills happen at the trigger price itself, not at the
// bar's extreme and with no further slippage.
func (x executor) evaluateExit(position types.Position, bar types.Bar, pendingSell bool) exitDecision {
	if position.StopLossPrice.IsSome() {
		stop := position.StopLossPrice.Unwrap()
		if bar.Low <= stop {
			return exitDecision{reason: types.ExitReasonStopHit, fill: stop}
		}
	}

	if position.TakeProfitPrice.IsSome() {
		target := position.TakeProfitPrice.Unwrap()
		if bar.High >= target {
			return exitDecision{reason: types.ExitReasonTargetHit, fill: target}
		}
	}

	if pendingSell {
		return exitDecision{reason: types.ExitReasonSignalExit, fill: x.sellFill(bar.Open)}
	}

	return exitDecision{reason: types.ExitReasonNone}
}
