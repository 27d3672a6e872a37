package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TimeBucket is the granularity aggregate rows are grouped by.
type TimeBucket int

const (
	BucketNone TimeBucket = iota
	BucketDay
	BucketWeek
	BucketMonth
	BucketQuarter
)

var bucketLabels = map[TimeBucket]string{
	BucketDay:     "day",
	BucketWeek:    "week",
	BucketMonth:   "month",
	BucketQuarter: "quarter",
}

func (b TimeBucket) String() string {
	if l, ok := bucketLabels[b]; ok {
		return l
	}
	return ""
}

func (b TimeBucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *TimeBucket) UnmarshalText(text []byte) error {
	bucket, err := ParseTimeBucket(string(text))
	if err != nil {
		return err
	}
	*b = bucket
	return nil
}

func ParseTimeBucket(s string) (TimeBucket, error) {
	if s == "" {
		return BucketNone, nil
	}
	for b, l := range bucketLabels {
		if l == s {
			return b, nil
		}
	}
	return BucketNone, fmt.Errorf("unknown time bucket %q", s)
}

// Extract returns the SQL expression that yields the bucket number of the
// timestamp column. Days are numbered by day of year.
func (b TimeBucket) Extract(column string) string {
	switch b {
	case BucketDay:
		return fmt.Sprintf("extract(doy from %s)::int", column)
	case BucketWeek:
		return fmt.Sprintf("extract(week from %s)::int", column)
	case BucketMonth:
		return fmt.Sprintf("extract(month from %s)::int", column)
	case BucketQuarter:
		return fmt.Sprintf("extract(quarter from %s)::int", column)
	default:
		return ""
	}
}

// Time rebuilds a timestamp from a (year, bucket number) pair.
//
// Quarters resolve to the first day of month bucket*3, which is the last
// month of the quarter. Existing charts are keyed on that date.
func (b TimeBucket) Time(year, value int) time.Time {
	switch b {
	case BucketDay:
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, value-1)
	case BucketWeek:
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, value*7)
	case BucketMonth:
		return time.Date(year, time.Month(value), 1, 0, 0, 0, 0, time.UTC)
	case BucketQuarter:
		return time.Date(year, time.Month(value*3), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}

// AggregateRow is one row of an aggregation query. Bucket and Year are only
// set when the query was grouped by a time bucket.
type AggregateRow struct {
	LocationID   int64           `db:"location_id" json:"location_id"`
	LocationName string          `db:"location_name" json:"location_name"`
	Lft          int64           `db:"lft" json:"lft"`
	Rght         int64           `db:"rght" json:"rght"`
	Value        decimal.Decimal `db:"value" json:"value"`
	Bucket       int             `db:"bucket" json:"bucket,omitempty"`
	Year         int             `db:"year" json:"year,omitempty"`
}

type SubmissionBounds struct {
	Min *time.Time `db:"min_created"`
	Max *time.Time `db:"max_created"`
}

var months = map[time.Month]string{
	time.January:   "Jan",
	time.February:  "Feb",
	time.March:     "Mar",
	time.April:     "Apr",
	time.May:       "May",
	time.June:      "Jun",
	time.July:      "Jul",
	time.August:    "Aug",
	time.September: "Sept",
	time.October:   "Oct",
	time.November:  "Nov",
	time.December:  "Dec",
}

var quarters = map[int]string{
	1: "First",
	2: "Second",
	3: "Third",
	4: "Fourth",
}

func MonthLabel(m time.Month) string {
	return months[m]
}

func QuarterLabel(q int) string {
	return quarters[q]
}
