package indicator

// RSI computes the relative strength index over the given period using
// rolling averages of gains and losses. The first period positions are
// NaN. A window with no losses reads 100, a window with no movement at
// all reads 50.
func RSI(values []float64, period int) ([]float64, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	out := nanSeries(len(values))
	if len(values) < period+1 {
		return out, nil
	}
	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}
	for i := period; i < len(values); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		switch {
		case lossSum == 0 && gainSum == 0:
			out[i] = 50
		case lossSum == 0:
			out[i] = 100
		default:
			rs := gainSum / lossSum
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out, nil
}
