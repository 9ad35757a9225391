package metrics

import "github.com/overline-lab/backstrat/internal/types"

// drawdownStats walks the equity curve against its running peak. maxDD and
// avgDD are positive magnitudes of the relative decline (avgDD averages only
// the bars spent underwater); maxDuration is the longest consecutive stretch
// of bars below a prior peak.
func drawdownStats(equity []types.EquityPoint) (maxDD float64, avgDD float64, maxDuration int) {
	var peak float64
	var underwaterSum float64
	var underwaterBars int
	var run int

	for i := range equity {
		v := equity[i].Value
		if v > peak {
			peak = v
		}

		var dd float64
		if peak > 0 {
			dd = (v - peak) / peak
		}

		if dd < 0 {
			run++
			underwaterBars++
			underwaterSum += dd
			if -dd > maxDD {
				maxDD = -dd
			}
			if run > maxDuration {
				maxDuration = run
			}
		} else {
			run = 0
		}
	}

	if underwaterBars > 0 {
		avgDD = -underwaterSum / float64(underwaterBars)
	}

	return maxDD, avgDD, maxDuration
}
