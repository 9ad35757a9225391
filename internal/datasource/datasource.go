// Package datasource loads ordered OHLCV bar series from storage backends.
// The backtesting engine itself consumes plain bar slices; callers drain a
// DataSource through Collect before handing the series over.
package datasource

import (
	"iter"
	"time"

	"github.com/moznion/go-optional"

	"github.com/overline-lab/backstrat/internal/types"
)

type DataSource interface {
	// Initialize points the source at the given data file.
	Initialize(path string) error
	// ReadAll yields every bar inside the optional [start, end] window in
	// ascending time order. Duplicate timestamps are collapsed to the
	// first row.
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) iter.Seq2[types.Bar, error]
	// Count returns the number of bars inside the optional [start, end] window.
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close closes the data source and releases any resources.
	Close() error
}

// Collect drains ReadAll into a slice, stopping at the first error.
func Collect(source DataSource, start, end optional.Option[time.Time]) ([]types.Bar, error) {
	var bars []types.Bar

	for bar, err := range source.ReadAll(start, end) {
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	return bars, nil
}
