package base

import (
	"sort"
	"strconv"
	"time"

	"github.com/c9s/connectors/pkg/exerrors"
)

// Timeframe returns the exchange value of a unified timeframe.
func (e *Exchange) Timeframe(timeframe string) (string, error) {
	if v, ok := e.desc.Timeframes[timeframe]; ok {
		return v, nil
	}
	return "", e.NewError(exerrors.NotSupported, "does not support timeframe %s", timeframe)
}

// Timeframes lists the supported unified timeframes, shortest first.
func (e *Exchange) Timeframes() []string {
	timeframes := make([]string, 0, len(e.desc.Timeframes))
	for tf := range e.desc.Timeframes {
		timeframes = append(timeframes, tf)
	}

	sort.Slice(timeframes, func(i, j int) bool {
		a, _ := ParseTimeframe(timeframes[i])
		b, _ := ParseTimeframe(timeframes[j])
		if a == b {
			return timeframes[i] < timeframes[j]
		}
		return a < b
	})
	return timeframes
}

// ParseTimeframe converts "1m", "4h", "1w", "1M" into a duration. Months are
// 30 days and years 365 days.
func ParseTimeframe(timeframe string) (time.Duration, error) {
	if len(timeframe) < 2 {
		return 0, exerrors.New(exerrors.BadRequest, "timeframe", "invalid timeframe %q", timeframe)
	}

	amount, err := strconv.Atoi(timeframe[:len(timeframe)-1])
	if err != nil || amount <= 0 {
		return 0, exerrors.New(exerrors.BadRequest, "timeframe", "invalid timeframe %q", timeframe)
	}

	var unit time.Duration
	switch timeframe[len(timeframe)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	case 'w':
		unit = 7 * 24 * time.Hour
	case 'M':
		unit = 30 * 24 * time.Hour
	case 'y':
		unit = 365 * 24 * time.Hour
	default:
		return 0, exerrors.New(exerrors.BadRequest, "timeframe", "invalid timeframe unit %q", timeframe)
	}

	return time.Duration(amount) * unit, nil
}
