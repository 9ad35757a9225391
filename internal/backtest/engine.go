// Package backtest is the sequential portfolio simulator at the center of
// the module. An Engine consumes an ordered bar series and a strategy's
// signals, applies the execution cost model and the exit priority rules,
// and produces a trade ledger, an equity curve, and derived metrics as a
// RunResult. A single run is strictly sequential; independent runs share no
// mutable state and may execute in parallel.
package backtest

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/overline-lab/backstrat/internal/backtest/metrics"
	"github.com/overline-lab/backstrat/internal/logger"
	"github.com/overline-lab/backstrat/internal/strategy"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// Engine runs backtests with one fixed set of run parameters. It holds no
// per-run state, so a single Engine can serve many runs, including
// concurrent ones.
type Engine struct {
	config   Config
	executor executor
	logger   *logger.Logger
}

// NewEngine validates the config once; Run reuses it for every series.
func NewEngine(config Config, log *logger.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Engine{
		config:   config,
		executor: newExecutor(config),
		logger:   log,
	}, nil
}

// Config returns the run parameters the engine was built with.
func (e *Engine) Config() Config {
	return e.config
}

// Run simulates the strategy over the bar series and returns the sole
// outward contract of the core. Failures are encoded in the result status
// with the error message attached; a failed result never carries partial
// trades or equity.
func (e *Engine) Run(symbol string, strat strategy.Strategy, bars []types.Bar) types.RunResult {
	result := types.RunResult{
		ID:          uuid.NewString(),
		Symbol:      symbol,
		Status:      types.RunStatusFailed,
		Trades:      []types.Trade{},
		EquityCurve: []types.EquityPoint{},
		StartedAt:   time.Now(),
	}

	if strat == nil {
		return e.fail(result, errors.New(errors.ErrCodeBacktestNoStrategy, "no strategy provided"))
	}
	result.Strategy = strat.Name()

	e.logger.Debug("starting backtest",
		zap.String("run_id", result.ID),
		zap.String("symbol", symbol),
		zap.String("strategy", result.Strategy),
		zap.Int("bars", len(bars)),
	)

	window, warmupIdx, err := e.prepare(symbol, strat, bars)
	if err != nil {
		return e.fail(result, err)
	}

	signals, err := strat.Signals(window)
	if err != nil {
		return e.fail(result, errors.Wrapf(errors.ErrCodeStrategySignalError, err,
			"strategy %s failed while generating signals for %s", result.Strategy, symbol))
	}
	if len(signals) != len(window) {
		return e.fail(result, errors.Newf(errors.ErrCodeStrategySignalError,
			"strategy %s produced %d signals for %d bars", result.Strategy, len(signals), len(window)))
	}

	trades, equity := e.simulate(window, signals, warmupIdx)

	opts := metrics.DefaultOptions()
	opts.RiskFreeRate = e.config.RiskFreeRate

	result.Trades = trades
	result.EquityCurve = equity
	result.Metrics = metrics.Compute(trades, equity, e.config.InitialCapital, opts)
	result.BuyHoldReturn = BuyHoldReturn(window, e.config.InitialCapital, e.config.PositionSize, e.config.CommissionRate)
	result.Status = types.RunStatusCompleted
	result.FinishedAt = time.Now()

	e.logger.Info("backtest completed",
		zap.String("run_id", result.ID),
		zap.String("symbol", symbol),
		zap.String("strategy", result.Strategy),
		zap.Int("bars", len(window)),
		zap.Int("trades", len(trades)),
		zap.Float64("total_return", result.Metrics.TotalReturn),
	)

	return result
}

// prepare runs every check that must pass before any simulation state is
// created: series ordering, window slicing, strategy setup, and the warm-up
// history floor.
func (e *Engine) prepare(symbol string, strat strategy.Strategy, bars []types.Bar) ([]types.Bar, int, error) {
	if err := types.ValidateSeries(bars); err != nil {
		return nil, 0, err
	}

	window := e.config.Window(bars)
	if len(window) == 0 {
		return nil, 0, errors.Newf(errors.ErrCodeBacktestNoData,
			"no bars for %s inside the run window", symbol)
	}

	if err := strat.Setup(window); err != nil {
		return nil, 0, err
	}

	warmupIdx := e.config.MinHistoryBars
	if required := strat.RequiredHistory(); required > warmupIdx {
		warmupIdx = required
	}
	if len(window) <= warmupIdx {
		return nil, 0, errors.NewInsufficientDataErrorf(warmupIdx+1, len(window), symbol,
			"%s needs %d bars to trade past the %d-bar warm-up, have %d",
			strat.Name(), warmupIdx+1, warmupIdx, len(window))
	}

	return window, warmupIdx, nil
}

// simulate walks the window bar by bar. A signal emitted on bar i acts at
// bar i+1's open, so no fill ever uses information from its own bar. Every
// bar appends exactly one equity point; the final bar force-closes any
// still-open position at its close before that point is taken, so the curve
// always ends on realized cash.
func (e *Engine) simulate(window []types.Bar, signals []types.SignalType, warmupIdx int) ([]types.Trade, []types.EquityPoint) {
	state := newPortfolioState(e.config.InitialCapital)
	trades := []types.Trade{}
	equity := make([]types.EquityPoint, 0, len(window))

	var peak float64
	pending := types.SignalTypeHold

	for i, bar := range window {
		if state.HasPosition() {
			position := state.Position.Unwrap()
			decision := e.executor.evaluateExit(position, bar, pending == types.SignalTypeSell)
			if decision.reason.Terminal() {
				var trade types.Trade
				state, trade = e.executor.closeAt(state, position, bar.Time, i, decision.fill, decision.reason)
				trades = append(trades, trade)
			}
		} else if pending == types.SignalTypeBuy {
			var opened bool
			state, opened = e.executor.enterLong(state, bar, i)
			// A fill at the open lives through the rest of the bar's
			// range, so the entry bar can hit its own stop or target.
			if opened {
				position := state.Position.Unwrap()
				decision := e.executor.evaluateExit(position, bar, false)
				if decision.reason.Terminal() {
					var trade types.Trade
					state, trade = e.executor.closeAt(state, position, bar.Time, i, decision.fill, decision.reason)
					trades = append(trades, trade)
				}
			}
		}

		if i == len(window)-1 && state.HasPosition() {
			position := state.Position.Unwrap()
			fill := e.executor.sellFill(bar.Close)

			var trade types.Trade
			state, trade = e.executor.closeAt(state, position, bar.Time, i, fill, types.ExitReasonLiquidated)
			trades = append(trades, trade)
		}

		value := state.Value(bar.Close)
		if value > peak {
			peak = value
		}

		point := types.EquityPoint{
			Time:          bar.Time,
			Value:         value,
			Cash:          state.Cash,
			PositionValue: value - state.Cash,
		}
		if peak > 0 && value < peak {
			point.Drawdown = peak - value
			point.DrawdownPct = (peak - value) / peak
		}
		equity = append(equity, point)

		pending = types.SignalTypeHold
		if i >= warmupIdx {
			pending = signals[i]
		}
	}

	return trades, equity
}

func (e *Engine) fail(result types.RunResult, err error) types.RunResult {
	result.Status = types.RunStatusFailed
	result.ErrorMessage = err.Error()
	result.FinishedAt = time.Now()

	e.logger.Warn("backtest failed",
		zap.String("run_id", result.ID),
		zap.String("symbol", result.Symbol),
		zap.String("strategy", result.Strategy),
		zap.Error(err),
	)

	return result
}
