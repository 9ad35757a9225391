package indicator

import "github.com/overline-lab/backstrat/pkg/errors"

// MACDSeries holds the MACD line, its signal line, and the histogram
// between them.
type MACDSeries struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes moving average convergence divergence from the fast and
// slow EMA periods, with the signal line as an EMA of the MACD line.
// Because the EMAs are seeded with the first value, every position is
// defined, but values before the slow period has filled are unsettled
// and callers should wait out that warm-up.
func MACD(values []float64, fastPeriod, slowPeriod, signalPeriod int) (MACDSeries, error) {
	if err := validatePeriod(fastPeriod); err != nil {
		return MACDSeries{}, err
	}
	if err := validatePeriod(slowPeriod); err != nil {
		return MACDSeries{}, err
	}
	if err := validatePeriod(signalPeriod); err != nil {
		return MACDSeries{}, err
	}
	if fastPeriod >= slowPeriod {
		return MACDSeries{}, errors.Newf(errors.ErrCodeIndicatorPeriod,
			"fast period %d must be shorter than slow period %d", fastPeriod, slowPeriod)
	}
	fast, err := EMA(values, fastPeriod)
	if err != nil {
		return MACDSeries{}, err
	}
	slow, err := EMA(values, slowPeriod)
	if err != nil {
		return MACDSeries{}, err
	}
	line := make([]float64, len(values))
	for i := range line {
		line[i] = fast[i] - slow[i]
	}
	signal, err := EMA(line, signalPeriod)
	if err != nil {
		return MACDSeries{}, err
	}
	hist := make([]float64, len(values))
	for i := range hist {
		hist[i] = line[i] - signal[i]
	}
	return MACDSeries{Line: line, Signal: signal, Histogram: hist}, nil
}
