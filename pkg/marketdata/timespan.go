// Package marketdata downloads historical bars from external providers and
// writes them to local files the backtester can read.
package marketdata

import (
	"strconv"
	"strings"

	"github.com/polygon-io/client-go/rest/models"
)

// Timespan is the compact interval notation used in download configs, a
// numeric multiplier followed by a unit letter. The unit follows the binance
// convention: lowercase m is minutes, uppercase M is months.
type Timespan string

const (
	TimespanSecond         Timespan = "1s"
	TimespanMinute         Timespan = "1m"
	TimespanThreeMinutes   Timespan = "3m"
	TimespanFiveMinutes    Timespan = "5m"
	TimespanFifteenMinutes Timespan = "15m"
	TimespanThirtyMinutes  Timespan = "30m"
	TimespanHour           Timespan = "1h"
	TimespanTwoHours       Timespan = "2h"
	TimespanFourHours      Timespan = "4h"
	TimespanSixHours       Timespan = "6h"
	TimespanEightHours     Timespan = "8h"
	TimespanTwelveHours    Timespan = "12h"
	TimespanDay            Timespan = "1d"
	TimespanThreeDays      Timespan = "3d"
	TimespanWeek           Timespan = "1w"
	TimespanMonth          Timespan = "1M"
)

// AllTimespans lists the supported intervals in ascending duration order.
var AllTimespans = []Timespan{
	TimespanSecond,
	TimespanMinute,
	TimespanThreeMinutes,
	TimespanFiveMinutes,
	TimespanFifteenMinutes,
	TimespanThirtyMinutes,
	TimespanHour,
	TimespanTwoHours,
	TimespanFourHours,
	TimespanSixHours,
	TimespanEightHours,
	TimespanTwelveHours,
	TimespanDay,
	TimespanThreeDays,
	TimespanWeek,
	TimespanMonth,
}

// IsValid reports whether t is one of the supported intervals.
func (t Timespan) IsValid() bool {
	for _, candidate := range AllTimespans {
		if t == candidate {
			return true
		}
	}
	return false
}

// Multiplier returns the numeric prefix of the interval, defaulting to 1
// when the prefix is missing or malformed.
func (t Timespan) Multiplier() int {
	s := string(t)
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	n, err := strconv.Atoi(s[:digits])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Timespan maps the interval unit onto the polygon timespan vocabulary.
// Unknown units fall back to days.
func (t Timespan) Timespan() models.Timespan {
	unit := strings.TrimLeft(string(t), "0123456789")
	switch unit {
	case "s":
		return models.Second
	case "m":
		return models.Minute
	case "h":
		return models.Hour
	case "d":
		return models.Day
	case "w":
		return models.Week
	case "M":
		return models.Month
	default:
		return models.Day
	}
}
