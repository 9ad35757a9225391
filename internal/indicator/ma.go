package indicator

// SMA computes the simple moving average of values over the given period.
// The first period-1 positions are NaN.
func SMA(values []float64, period int) ([]float64, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	out := rollingSum(values, period)
	for i := period - 1; i < len(out); i++ {
		out[i] /= float64(period)
	}
	return out, nil
}
