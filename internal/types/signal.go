package types

import "time"

type SignalType string

const (
	// SignalTypeBuy tells the engine to open a long position
	SignalTypeBuy SignalType = "buy"
	// SignalTypeHold tells the engine to leave the portfolio unchanged
	SignalTypeHold SignalType = "hold"
	// SignalTypeSell tells the engine to close the open long position
	SignalTypeSell SignalType = "sell"
)

// IsValid reports whether s is one of the three engine signals.
func (s SignalType) IsValid() bool {
	switch s {
	case SignalTypeBuy, SignalTypeHold, SignalTypeSell:
		return true
	default:
		return false
	}
}

// Signal is a signal annotated with the bar time it was computed at. The
// engine itself consumes aligned []SignalType slices; this shape is for
// logging and the API layer.
type Signal struct {
	// Time is the time of the bar the signal was computed from
	Time time.Time `json:"time"`
	// Type is the signal decision
	Type SignalType `json:"type"`
	// Symbol the signal applies to
	Symbol string `json:"symbol,omitempty"`
	// Name of the strategy that produced the signal
	Name string `json:"name,omitempty"`
}
