package writer

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// DuckDBWriter buffers bars in an in-memory DuckDB table and exports them on
// Finalize with a COPY statement. The output format follows the extension of
// the output path: .parquet writes Parquet, .csv writes CSV with a header.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string
	rows       int
}

// NewDuckDBWriter creates a writer that will export to outputPath.
func NewDuckDBWriter(outputPath string) *DuckDBWriter {
	return &DuckDBWriter{
		outputPath: outputPath,
	}
}

func (w *DuckDBWriter) Initialize() error {
	if _, err := exportFormat(w.outputPath); err != nil {
		return err
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to open in-memory database", err)
	}
	w.db = db

	_, err = w.db.Exec(`
		CREATE TABLE market_data (
			time TIMESTAMP NOT NULL,
			symbol TEXT NOT NULL,
			open DOUBLE NOT NULL,
			high DOUBLE NOT NULL,
			low DOUBLE NOT NULL,
			close DOUBLE NOT NULL,
			volume DOUBLE NOT NULL
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create buffer table", err)
	}

	tx, err := w.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to begin transaction", err)
	}
	w.tx = tx

	stmt, err := tx.Prepare(`
		INSERT INTO market_data (time, symbol, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to prepare insert statement", err)
	}
	w.stmt = stmt

	return nil
}

func (w *DuckDBWriter) Write(bar types.Bar) error {
	if w.stmt == nil {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "writer is not initialized")
	}

	_, err := w.stmt.Exec(
		bar.Time,
		bar.Symbol,
		bar.Open,
		bar.High,
		bar.Low,
		bar.Close,
		bar.Volume,
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to buffer bar", err)
	}
	w.rows++

	return nil
}

// Finalize commits the buffered rows and exports them, ordered by time, to
// the output path.
func (w *DuckDBWriter) Finalize() (string, error) {
	format, err := exportFormat(w.outputPath)
	if err != nil {
		return "", err
	}
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer is not initialized")
	}

	if err := w.stmt.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to close insert statement", err)
	}
	w.stmt = nil

	if err := w.tx.Commit(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to commit buffered bars", err)
	}
	w.tx = nil

	query := fmt.Sprintf(
		"COPY (SELECT * FROM market_data ORDER BY time) TO '%s' %s",
		escapeSingleQuotes(w.outputPath), format,
	)
	if _, err := w.db.Exec(query); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to export %d bars to %s", w.rows, w.outputPath)
	}

	return w.outputPath, nil
}

func (w *DuckDBWriter) Close() error {
	var errs []error

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			errs = append(errs, err)
		}
		w.stmt = nil
	}
	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			errs = append(errs, err)
		}
		w.tx = nil
	}
	if w.db != nil {
		if err := w.db.Close(); err != nil {
			errs = append(errs, err)
		}
		w.db = nil
	}

	if len(errs) > 0 {
		return errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, errs[0], "failed to close writer (%d errors)", len(errs))
	}
	return nil
}

func (w *DuckDBWriter) GetOutputPath() string {
	return w.outputPath
}

// exportFormat maps the output extension onto a DuckDB COPY format clause.
func exportFormat(path string) (string, error) {
	switch filepath.Ext(path) {
	case ".parquet":
		return "(FORMAT PARQUET)", nil
	case ".csv":
		return "(FORMAT CSV, HEADER)", nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported output extension %q, want .parquet or .csv", filepath.Ext(path))
	}
}

func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
