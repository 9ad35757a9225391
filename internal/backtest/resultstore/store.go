// Package resultstore persists finished backtest runs in a DuckDB database
// and writes a YAML report next to it for each run. The store is the only
// component that outlives a simulation; everything upstream works on
// in-memory values.
package resultstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/overline-lab/backstrat/internal/logger"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const databaseFileName = "results.duckdb"

// Store writes run results into a file-backed DuckDB database with three
// tables: runs, trades and equity. One Store may serve many runs; rows are
// keyed by run id and writing the same id again replaces the previous rows.
type Store struct {
	db     *sql.DB
	dir    string
	dbPath string
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewStore opens (or creates) the results database inside dir and ensures
// the schema exists.
func NewStore(dir string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStoreInitFailed, err, "failed to create results directory %s", dir)
	}

	dbPath := filepath.Join(dir, databaseFileName)

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStoreInitFailed, err, "failed to open results database %s", dbPath)
	}

	store := &Store{
		db:     db,
		dir:    dir,
		dbPath: dbPath,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := store.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return store, nil
}

// initialize creates the result tables. Squirrel has no DDL support so the
// schema is raw SQL.
func (s *Store) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			symbol TEXT,
			strategy TEXT,
			status TEXT,
			error_message TEXT,
			total_return DOUBLE,
			sharpe_ratio DOUBLE,
			max_drawdown DOUBLE,
			win_rate DOUBLE,
			total_trades INTEGER,
			buy_hold_return DOUBLE,
			metrics TEXT,
			started_at TIMESTAMP,
			finished_at TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS trades (
			run_id TEXT,
			seq INTEGER,
			symbol TEXT,
			entry_time TIMESTAMP,
			exit_time TIMESTAMP,
			entry_price DOUBLE,
			exit_price DOUBLE,
			shares DOUBLE,
			entry_commission DOUBLE,
			exit_commission DOUBLE,
			pnl DOUBLE,
			pnl_pct DOUBLE,
			holding_bars INTEGER,
			exit_reason TEXT
		);

		CREATE TABLE IF NOT EXISTS equity (
			run_id TEXT,
			seq INTEGER,
			time TIMESTAMP,
			value DOUBLE,
			cash DOUBLE,
			position_value DOUBLE,
			drawdown DOUBLE,
			drawdown_pct DOUBLE
		);
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to create result tables", err)
	}

	return nil
}

// DatabasePath returns the location of the DuckDB file backing the store.
func (s *Store) DatabasePath() string {
	return s.dbPath
}

// ReportPath returns where the YAML report for a run id is written.
func (s *Store) ReportPath(runID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.yaml", runID))
}

// Write persists a run and its trades and equity curve in one transaction,
// then writes the YAML report next to the database. Writing an id that is
// already stored replaces the previous rows and report.
func (s *Store) Write(result types.RunResult) error {
	metricsDoc, err := yaml.Marshal(&result.Metrics)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to marshal run metrics", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to begin transaction", err)
	}

	// Replace semantics: clear any previous rows for this run id first.
	if _, err := s.sq.Delete("runs").Where(squirrel.Eq{"id": result.ID}).RunWith(tx).Exec(); err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to delete previous run row", err)
	}

	if _, err := s.sq.Delete("trades").Where(squirrel.Eq{"run_id": result.ID}).RunWith(tx).Exec(); err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to delete previous trade rows", err)
	}

	if _, err := s.sq.Delete("equity").Where(squirrel.Eq{"run_id": result.ID}).RunWith(tx).Exec(); err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to delete previous equity rows", err)
	}

	_, err = s.sq.Insert("runs").
		Columns("id", "symbol", "strategy", "status", "error_message",
			"total_return", "sharpe_ratio", "max_drawdown", "win_rate", "total_trades",
			"buy_hold_return", "metrics", "started_at", "finished_at").
		Values(result.ID, result.Symbol, result.Strategy, string(result.Status), result.ErrorMessage,
			result.Metrics.TotalReturn, result.Metrics.SharpeRatio, result.Metrics.MaxDrawdown,
			result.Metrics.WinRate, result.Metrics.TotalTrades,
			result.BuyHoldReturn, string(metricsDoc), result.StartedAt, result.FinishedAt).
		RunWith(tx).
		Exec()
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to insert run row", err)
	}

	for i, trade := range result.Trades {
		_, err = s.sq.Insert("trades").
			Columns("run_id", "seq", "symbol", "entry_time", "exit_time",
				"entry_price", "exit_price", "shares", "entry_commission", "exit_commission",
				"pnl", "pnl_pct", "holding_bars", "exit_reason").
			Values(result.ID, i, trade.Symbol, trade.EntryTime, trade.ExitTime,
				trade.EntryPrice, trade.ExitPrice, trade.Shares, trade.EntryCommission, trade.ExitCommission,
				trade.PnL, trade.PnLPct, trade.HoldingBars, string(trade.ExitReason)).
			RunWith(tx).
			Exec()
		if err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeStoreWriteFailed, err, "failed to insert trade %d", i)
		}
	}

	for i, point := range result.EquityCurve {
		_, err = s.sq.Insert("equity").
			Columns("run_id", "seq", "time", "value", "cash", "position_value", "drawdown", "drawdown_pct").
			Values(result.ID, i, point.Time, point.Value, point.Cash, point.PositionValue, point.Drawdown, point.DrawdownPct).
			RunWith(tx).
			Exec()
		if err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeStoreWriteFailed, err, "failed to insert equity point %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to commit run", err)
	}

	s.logger.Debug("Persisted run",
		zap.String("run_id", result.ID),
		zap.String("symbol", result.Symbol),
		zap.Int("trades", len(result.Trades)),
		zap.Int("equity_points", len(result.EquityCurve)),
	)

	reportPath, err := s.writeReport(result)
	if err != nil {
		return err
	}

	s.logger.Info("Wrote run report",
		zap.String("run_id", result.ID),
		zap.String("path", reportPath),
	)

	return nil
}

// writeReport marshals the human-readable report for a run and writes it
// next to the database.
func (s *Store) writeReport(result types.RunResult) (string, error) {
	report := types.NewRunReport(result, "", s.dbPath)

	data, err := yaml.Marshal(&report)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to marshal run report", err)
	}

	path := s.ReportPath(result.ID)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to write run report %s", path)
	}

	return path, nil
}

// LoadRun reassembles a stored run, including its full trade ledger and
// equity curve, in the order they were recorded.
func (s *Store) LoadRun(id string) (types.RunResult, error) {
	var (
		result     types.RunResult
		status     string
		metricsDoc string
	)

	err := s.sq.
		Select("id", "symbol", "strategy", "status", "error_message", "buy_hold_return", "metrics", "started_at", "finished_at").
		From("runs").
		Where(squirrel.Eq{"id": id}).
		RunWith(s.db).
		QueryRow().
		Scan(&result.ID, &result.Symbol, &result.Strategy, &status, &result.ErrorMessage,
			&result.BuyHoldReturn, &metricsDoc, &result.StartedAt, &result.FinishedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.RunResult{}, errors.Newf(errors.ErrCodeRunNotFound, "run %s is not stored", id)
		}

		return types.RunResult{}, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to load run row", err)
	}

	result.Status = types.RunStatus(status)

	if err := yaml.Unmarshal([]byte(metricsDoc), &result.Metrics); err != nil {
		return types.RunResult{}, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to unmarshal run metrics", err)
	}

	trades, err := s.loadTrades(id)
	if err != nil {
		return types.RunResult{}, err
	}

	equity, err := s.loadEquity(id)
	if err != nil {
		return types.RunResult{}, err
	}

	result.Trades = trades
	result.EquityCurve = equity

	return result, nil
}

func (s *Store) loadTrades(runID string) ([]types.Trade, error) {
	rows, err := s.sq.
		Select("symbol", "entry_time", "exit_time", "entry_price", "exit_price",
			"shares", "entry_commission", "exit_commission", "pnl", "pnl_pct", "holding_bars", "exit_reason").
		From("trades").
		Where(squirrel.Eq{"run_id": runID}).
		OrderBy("seq ASC").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to query trades", err)
	}
	defer rows.Close()

	trades := []types.Trade{}

	for rows.Next() {
		var (
			trade  types.Trade
			reason string
		)

		err := rows.Scan(&trade.Symbol, &trade.EntryTime, &trade.ExitTime, &trade.EntryPrice, &trade.ExitPrice,
			&trade.Shares, &trade.EntryCommission, &trade.ExitCommission, &trade.PnL, &trade.PnLPct,
			&trade.HoldingBars, &reason)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to scan trade", err)
		}

		trade.ExitReason = types.ExitReason(reason)
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "error iterating trades", err)
	}

	return trades, nil
}

func (s *Store) loadEquity(runID string) ([]types.EquityPoint, error) {
	rows, err := s.sq.
		Select("time", "value", "cash", "position_value", "drawdown", "drawdown_pct").
		From("equity").
		Where(squirrel.Eq{"run_id": runID}).
		OrderBy("seq ASC").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to query equity curve", err)
	}
	defer rows.Close()

	points := []types.EquityPoint{}

	for rows.Next() {
		var point types.EquityPoint

		err := rows.Scan(&point.Time, &point.Value, &point.Cash, &point.PositionValue, &point.Drawdown, &point.DrawdownPct)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to scan equity point", err)
		}

		points = append(points, point)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "error iterating equity curve", err)
	}

	return points, nil
}

// ListRuns returns the stored runs as compact summaries, most recent first.
func (s *Store) ListRuns() ([]types.RunSummary, error) {
	rows, err := s.sq.
		Select("id", "symbol", "strategy", "status", "error_message",
			"total_return", "sharpe_ratio", "max_drawdown", "win_rate", "total_trades").
		From("runs").
		OrderBy("started_at DESC", "id ASC").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to query runs", err)
	}
	defer rows.Close()

	summaries := []types.RunSummary{}

	for rows.Next() {
		var (
			summary types.RunSummary
			status  string
		)

		err := rows.Scan(&summary.ID, &summary.Symbol, &summary.Strategy, &status, &summary.ErrorMessage,
			&summary.TotalReturn, &summary.SharpeRatio, &summary.MaxDrawdown, &summary.WinRate, &summary.TotalTrades)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to scan run summary", err)
		}

		summary.Status = types.RunStatus(status)
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "error iterating runs", err)
	}

	return summaries, nil
}

// Cleanup drops all result tables and recreates them empty. Report files on
// disk are left alone.
func (s *Store) Cleanup() error {
	_, err := s.db.Exec(`
		DROP TABLE IF EXISTS equity;
		DROP TABLE IF EXISTS trades;
		DROP TABLE IF EXISTS runs;
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to drop result tables", err)
	}

	return s.initialize()
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	return s.db.Close()
}
