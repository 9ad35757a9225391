// Package batch runs independent backtests over a bounded worker pool.
// One run is strictly sequential; separate items share nothing, so the
// pool executes them in parallel with per-item failure isolation.
package batch

import (
	"time"

	"github.com/overline-lab/backstrat/internal/backtest"
	"github.com/overline-lab/backstrat/internal/types"
)

// DefaultConcurrency is the worker pool size used when a batch config
// does not set one.
const DefaultConcurrency = 4

// Item is one backtest in a batch: a symbol paired with the strategy that
// trades it and the series it trades over. Bars, when set, are used
// directly; otherwise DataPath is opened through the data source layer.
type Item struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	// Strategy is a catalog strategy or preset name.
	Strategy string `json:"strategy" yaml:"strategy"`
	// Config is the YAML parameter document for the strategy, empty for
	// defaults.
	Config   string      `json:"config,omitempty" yaml:"config,omitempty"`
	DataPath string      `json:"data_path,omitempty" yaml:"data_path,omitempty"`
	Bars     []types.Bar `json:"-" yaml:"-"`
}

// ItemResult lands in the slot matching the item's position in the input
// slice.
type ItemResult struct {
	Index  int             `json:"index" yaml:"index"`
	Result types.RunResult `json:"result" yaml:"result"`
}

// Result is the outcome of a whole batch. Every slot is filled even when
// the batch is cancelled partway through.
type Result struct {
	ID         string       `json:"id" yaml:"id"`
	Items      []ItemResult `json:"items" yaml:"items"`
	StartedAt  time.Time    `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time    `json:"finished_at" yaml:"finished_at"`
}

// Summaries collapses every item result into its compact listing shape.
func (r Result) Summaries() []types.RunSummary {
	out := make([]types.RunSummary, len(r.Items))
	for i, item := range r.Items {
		out[i] = item.Result.Summarize()
	}

	return out
}

// OnProgress is invoked after each item finishes, successfully or not.
// Calls are serialized, so callers can drive a progress bar or a TUI
// update stream without their own locking.
type OnProgress = func(completed int, total int, result ItemResult)

// Config holds the shared run parameters for every item plus the pool
// size.
type Config struct {
	Run         backtest.Config `json:"run" yaml:"run"`
	Concurrency int             `json:"concurrency" yaml:"concurrency"`
}

// DefaultConfig returns a batch configuration with default run parameters
// and the default pool size.
func DefaultConfig() Config {
	return Config{
		Run:         backtest.DefaultConfig(),
		Concurrency: DefaultConcurrency,
	}
}
