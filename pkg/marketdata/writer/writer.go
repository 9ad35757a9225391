package writer

import "github.com/overline-lab/backstrat/internal/types"

// BarWriter receives downloaded bars one at a time and turns them into a
// file on disk. Implementations buffer rows between Initialize and Finalize;
// nothing is visible at the output path until Finalize returns.
type BarWriter interface {
	// Initialize prepares the writer for writing.
	Initialize() error
	// Write appends a single bar.
	Write(bar types.Bar) error
	// Finalize flushes everything written so far to the output path and
	// returns that path.
	Finalize() (string, error)
	// Close releases resources. Bars written but not finalized are dropped.
	Close() error
	// GetOutputPath returns the path Finalize will write to.
	GetOutputPath() string
}
