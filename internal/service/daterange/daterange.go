// Package daterange picks the reporting window and the time bucket charts
// are grouped by.
package daterange

import (
	"fmt"
	"time"

	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/pkg/constants"
)

// Code is a shorthand for a trailing window ending now.
type Code string

const (
	CodeWeek    Code = "w"
	CodeMonth   Code = "m"
	CodeQuarter Code = "q"
)

var codeDays = map[Code]int{
	CodeWeek:    7,
	CodeMonth:   30,
	CodeQuarter: 90,
}

const day = 24 * time.Hour

type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r Range) Length() time.Duration {
	return r.End.Sub(r.Start)
}

// RangeForCode returns the window of the code's length ending at now.
func RangeForCode(code Code, now time.Time) (Range, error) {
	days, ok := codeDays[code]
	if !ok {
		return Range{}, fmt.Errorf("%w: %q", constants.ErrUnknownRangeCode, code)
	}

	return Range{Start: now.Add(-time.Duration(days) * day), End: now}, nil
}

// BucketForWindow chooses the chart granularity for a window. The ranges
// share their boundaries and are checked in order, so a window of exactly
// 21 days is bucketed by day, 90 days by week and 270 days by month.
func BucketForWindow(start, end time.Time) domain.TimeBucket {
	interval := end.Sub(start)

	switch {
	case interval <= 21*day:
		return domain.BucketDay
	case 21*day <= interval && interval <= 90*day:
		return domain.BucketWeek
	case 90*day <= interval && interval <= 270*day:
		return domain.BucketMonth
	default:
		return domain.BucketQuarter
	}
}
