package resultstore

import (
	"github.com/Masterminds/squirrel"
	"github.com/overline-lab/backstrat/pkg/errors"
	"github.com/shopspring/decimal"
)

// RunStats are aggregates computed inside DuckDB over a stored run's trade
// rows. P&L totals are summed as DECIMAL in SQL and surfaced as
// decimal.Decimal so they reconcile exactly against the engine's ledger.
type RunStats struct {
	RunID         string
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64
	TotalPnL      decimal.Decimal
	GrossProfit   decimal.Decimal
	GrossLoss     decimal.Decimal
	MaxProfit     float64
	MaxLoss       float64
	AvgHolding    float64
}

// Stats computes per-run trade aggregates in SQL. The run must exist; a run
// with no trades returns zero-valued stats.
func (s *Store) Stats(runID string) (RunStats, error) {
	var count int

	err := s.sq.
		Select("COUNT(*)").
		From("runs").
		Where(squirrel.Eq{"id": runID}).
		RunWith(s.db).
		QueryRow().
		Scan(&count)
	if err != nil {
		return RunStats{}, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to check run existence", err)
	}

	if count == 0 {
		return RunStats{}, errors.Newf(errors.ErrCodeRunNotFound, "run %s is not stored", runID)
	}

	// Raw SQL for the CTE; Squirrel doesn't support this shape. The pnl
	// column is cast to DECIMAL so the sums stay exact, then back to VARCHAR
	// so they survive the driver round trip untouched.
	query := `
		WITH run_trades AS (
			SELECT
				CAST(pnl AS DECIMAL(18, 6)) AS pnl,
				holding_bars
			FROM trades
			WHERE run_id = ?
		)
		SELECT
			COUNT(*) AS total_trades,
			COALESCE(SUM(CASE WHEN pnl > 0 THEN 1 ELSE 0 END), 0) AS winning_trades,
			COALESCE(SUM(CASE WHEN pnl <= 0 THEN 1 ELSE 0 END), 0) AS losing_trades,
			CASE
				WHEN COUNT(*) > 0 THEN CAST(SUM(CASE WHEN pnl > 0 THEN 1 ELSE 0 END) AS DOUBLE) / COUNT(*)
				ELSE 0
			END AS win_rate,
			CAST(COALESCE(SUM(pnl), 0) AS VARCHAR) AS total_pnl,
			CAST(COALESCE(SUM(CASE WHEN pnl > 0 THEN pnl ELSE 0 END), 0) AS VARCHAR) AS gross_profit,
			CAST(COALESCE(ABS(SUM(CASE WHEN pnl < 0 THEN pnl ELSE 0 END)), 0) AS VARCHAR) AS gross_loss,
			COALESCE(MAX(CAST(pnl AS DOUBLE)), 0) AS max_profit,
			COALESCE(MIN(CAST(pnl AS DOUBLE)), 0) AS max_loss,
			COALESCE(AVG(CAST(holding_bars AS DOUBLE)), 0) AS avg_holding
		FROM run_trades
	`

	var (
		stats       RunStats
		totalPnL    string
		grossProfit string
		grossLoss   string
	)

	err = s.db.QueryRow(query, runID).Scan(
		&stats.TotalTrades,
		&stats.WinningTrades,
		&stats.LosingTrades,
		&stats.WinRate,
		&totalPnL,
		&grossProfit,
		&grossLoss,
		&stats.MaxProfit,
		&stats.MaxLoss,
		&stats.AvgHolding,
	)
	if err != nil {
		return RunStats{}, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to aggregate trade stats", err)
	}

	stats.RunID = runID

	if stats.TotalPnL, err = decimal.NewFromString(totalPnL); err != nil {
		return RunStats{}, errors.Wrapf(errors.ErrCodeStoreQueryFailed, err, "failed to parse total pnl %q", totalPnL)
	}

	if stats.GrossProfit, err = decimal.NewFromString(grossProfit); err != nil {
		return RunStats{}, errors.Wrapf(errors.ErrCodeStoreQueryFailed, err, "failed to parse gross profit %q", grossProfit)
	}

	if stats.GrossLoss, err = decimal.NewFromString(grossLoss); err != nil {
		return RunStats{}, errors.Wrapf(errors.ErrCodeStoreQueryFailed, err, "failed to parse gross loss %q", grossLoss)
	}

	return stats, nil
}
