package datasource

import (
	"iter"
	"sort"
	"time"

	"github.com/moznion/go-optional"

	"github.com/overline-lab/backstrat/internal/types"
)

// MemorySource serves a fixed bar slice. It backs tests and callers that
// already hold a series in memory.
type MemorySource struct {
	bars []types.Bar
}

// NewMemorySource copies the given bars, sorts them by time and collapses
// duplicate (symbol, time) rows to the first occurrence.
func NewMemorySource(bars []types.Bar) DataSource {
	sorted := make([]types.Bar, len(bars))
	copy(sorted, bars)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Time.Equal(sorted[j].Time) {
			return sorted[i].Symbol < sorted[j].Symbol
		}

		return sorted[i].Time.Before(sorted[j].Time)
	})

	deduped := make([]types.Bar, 0, len(sorted))

	for _, bar := range sorted {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(bar.Time) && deduped[n-1].Symbol == bar.Symbol {
			continue
		}

		deduped = append(deduped, bar)
	}

	return &MemorySource{bars: deduped}
}

// Initialize implements DataSource. The source is seeded at construction,
// so the path is ignored.
func (m *MemorySource) Initialize(path string) error {
	return nil
}

// ReadAll implements DataSource.
func (m *MemorySource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) iter.Seq2[types.Bar, error] {
	return func(yield func(types.Bar, error) bool) {
		for _, bar := range m.bars {
			if start.IsSome() && bar.Time.Before(start.Unwrap()) {
				continue
			}

			if end.IsSome() && bar.Time.After(end.Unwrap()) {
				break
			}

			if !yield(bar, nil) {
				return
			}
		}
	}
}

// Count implements DataSource.
func (m *MemorySource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	count := 0

	for range m.ReadAll(start, end) {
		count++
	}

	return count, nil
}

// Close implements DataSource.
func (m *MemorySource) Close() error {
	return nil
}
