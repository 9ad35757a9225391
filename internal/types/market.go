package types

import (
	"time"

	"github.com/overline-lab/backstrat/pkg/errors"
)

// Bar is a single OHLCV observation at a fixed timestamp granularity.
type Bar struct {
	Symbol string    `json:"symbol,omitempty" csv:"symbol"`
	Time   time.Time `json:"time" csv:"time"`
	Open   float64   `json:"open" csv:"open"`
	High   float64   `json:"high" csv:"high"`
	Low    float64   `json:"low" csv:"low"`
	Close  float64   `json:"close" csv:"close"`
	Volume float64   `json:"volume" csv:"volume"`
}

// ValidateSeries checks that a bar sequence is usable by the engine:
// timestamps strictly increasing (no duplicates) and volume non-negative.
// Gaps are permitted and are never filled here.
func ValidateSeries(bars []Bar) error {
	for i, bar := range bars {
		if bar.Volume < 0 {
			return errors.Newf(errors.ErrCodeInvalidParameter,
				"bar %d has negative volume %f", i, bar.Volume)
		}

		if i == 0 {
			continue
		}

		if !bars[i-1].Time.Before(bar.Time) {
			return errors.Newf(errors.ErrCodeUnorderedSeries,
				"bar %d timestamp %s is not after bar %d timestamp %s",
				i, bar.Time.Format(time.RFC3339), i-1, bars[i-1].Time.Format(time.RFC3339))
		}
	}

	return nil
}

// SliceByWindow returns the bars whose timestamps fall inside [start, end].
// A zero start or end leaves that side unbounded.
func SliceByWindow(bars []Bar, start, end time.Time) []Bar {
	lo := 0
	for lo < len(bars) && !start.IsZero() && bars[lo].Time.Before(start) {
		lo++
	}

	hi := len(bars)
	for hi > lo && !end.IsZero() && bars[hi-1].Time.After(end) {
		hi--
	}

	return bars[lo:hi]
}
