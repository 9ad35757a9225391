package batch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/overline-lab/backstrat/internal/backtest"
	"github.com/overline-lab/backstrat/internal/datasource"
	"github.com/overline-lab/backstrat/internal/logger"
	"github.com/overline-lab/backstrat/internal/strategy"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// Runner executes batch items over a bounded worker pool. Each worker
// resolves the item's strategy, loads its bars and hands both to a shared
// engine; the engine mutates nothing between runs, so one instance serves
// every worker.
type Runner struct {
	config     Config
	engine     *backtest.Engine
	catalog    *strategy.Catalog
	logger     *logger.Logger
	onProgress OnProgress
}

// NewRunner validates the shared run configuration eagerly and returns a
// runner. A nil catalog falls back to the built-in catalog, a nil logger
// to a no-op one and a zero concurrency to DefaultConcurrency.
func NewRunner(config Config, catalog *strategy.Catalog, log *logger.Logger, onProgress OnProgress) (*Runner, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}

	if catalog == nil {
		var err error

		catalog, err = strategy.DefaultCatalog()
		if err != nil {
			return nil, err
		}
	}

	engine, err := backtest.NewEngine(config.Run, log)
	if err != nil {
		return nil, err
	}

	return &Runner{
		config:     config,
		engine:     engine,
		catalog:    catalog,
		logger:     log,
		onProgress: onProgress,
	}, nil
}

// Run executes every item and returns a result with one filled slot per
// item. A failed item never aborts the batch. Cancelling the context
// stops the pool between items: runs already in flight finish, remaining
// items land as failed results, and Run reports the cancellation.
func (r *Runner) Run(ctx context.Context, items []Item) (Result, error) {
	if len(items) == 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidParameter, "batch has no items")
	}

	result := Result{
		ID:        uuid.NewString(),
		Items:     make([]ItemResult, len(items)),
		StartedAt: time.Now(),
	}

	workers := r.config.Concurrency
	if workers > len(items) {
		workers = len(items)
	}

	r.logger.Info("Starting batch run",
		zap.String("batch_id", result.ID),
		zap.Int("items", len(items)),
		zap.Int("workers", workers))

	jobs := make(chan int, len(items))

	var wg sync.WaitGroup

	var progressMu sync.Mutex

	completed := 0

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func(workerID int) {
			defer wg.Done()

			for index := range jobs {
				var run types.RunResult

				select {
				case <-ctx.Done():
					run = r.failedResult(items[index],
						errors.Wrap(errors.ErrCodeBacktestAborted, "batch cancelled", ctx.Err()))
				default:
					run = r.runItem(workerID, items[index])
				}

				// Each slot is written by exactly one worker.
				result.Items[index] = ItemResult{Index: index, Result: run}

				progressMu.Lock()
				completed++

				if r.onProgress != nil {
					r.onProgress(completed, len(items), result.Items[index])
				}
				progressMu.Unlock()
			}
		}(w)
	}

	for i := range items {
		jobs <- i
	}

	close(jobs)
	wg.Wait()

	result.FinishedAt = time.Now()

	r.logger.Info("Batch run finished",
		zap.String("batch_id", result.ID),
		zap.Int("items", len(items)),
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)))

	if err := ctx.Err(); err != nil {
		return result, errors.Wrap(errors.ErrCodeBacktestAborted, "batch cancelled", err)
	}

	return result, nil
}

// runItem resolves and executes a single item.
func (r *Runner) runItem(workerID int, item Item) types.RunResult {
	r.logger.Debug("Worker picked up item",
		zap.Int("worker_id", workerID),
		zap.String("symbol", item.Symbol),
		zap.String("strategy", item.Strategy))

	strat, err := r.catalog.Resolve(item.Strategy, item.Config)
	if err != nil {
		return r.failedResult(item, err)
	}

	bars := item.Bars
	if len(bars) == 0 && item.DataPath != "" {
		bars, err = r.loadBars(item.DataPath)
		if err != nil {
			return r.failedResult(item, err)
		}
	}

	return r.engine.Run(item.Symbol, strat, bars)
}

// loadBars opens the item's data file and drains the configured run
// window.
func (r *Runner) loadBars(path string) ([]types.Bar, error) {
	source, err := datasource.NewDuckDBSource(r.logger)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	if err := source.Initialize(path); err != nil {
		return nil, err
	}

	return datasource.Collect(source, r.config.Run.StartTime, r.config.Run.EndTime)
}

// failedResult synthesizes the failed run shape for items that never
// reach the engine.
func (r *Runner) failedResult(item Item, err error) types.RunResult {
	r.logger.Warn("Batch item failed before simulation",
		zap.String("symbol", item.Symbol),
		zap.String("strategy", item.Strategy),
		zap.Error(err))

	now := time.Now()

	return types.RunResult{
		ID:           uuid.NewString(),
		Symbol:       item.Symbol,
		Strategy:     item.Strategy,
		Status:       types.RunStatusFailed,
		ErrorMessage: err.Error(),
		Trades:       []types.Trade{},
		EquityCurve:  []types.EquityPoint{},
		StartedAt:    now,
		FinishedAt:   now,
	}
}
