package main

import "github.com/overline-lab/backstrat/internal/types"

// BatchProgressMsg carries one finished item from the running batch.
type BatchProgressMsg struct {
	Completed int
	Total     int
	Summary   types.RunSummary
}

// BatchDoneMsg signals that the batch finished. Err is set when the batch
// was cancelled partway through.
type BatchDoneMsg struct {
	Err error
}

// BatchErrorMsg indicates the batch could not be started.
type BatchErrorMsg struct {
	Err error
}
