package export

import (
	"sort"
	"time"
)

// Cell is a single value of an exported table.
type Cell = any

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// TimeOfDay is a wall clock time without a date.
type TimeOfDay struct {
	Hour, Minute, Second int
}

func (t TimeOfDay) String() string {
	return time.Date(0, time.January, 1, t.Hour, t.Minute, t.Second, 0, time.UTC).Format(time.TimeOnly)
}

// fraction is the time of day as a fraction of 24 hours.
func (t TimeOfDay) fraction() float64 {
	return float64(t.Hour*3600+t.Minute*60+t.Second) / 86400
}

// Input is either Rows or Records.
type Input interface {
	table() [][]Cell
}

// Rows is a ready table; the first row is written as the header.
type Rows [][]Cell

func (r Rows) table() [][]Cell {
	return r
}

// Records are keyed rows. Headers select and order the columns; when empty
// they are the sorted keys of the first record.
type Records struct {
	Records []map[string]Cell
	Headers []string
}

func (r Records) table() [][]Cell {
	headers := r.Headers
	if len(headers) == 0 && len(r.Records) > 0 {
		headers = make([]string, 0, len(r.Records[0]))
		for k := range r.Records[0] {
			headers = append(headers, k)
		}
		sort.Strings(headers)
	}

	table := make([][]Cell, 0, len(r.Records)+1)

	header := make([]Cell, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	table = append(table, header)

	for _, rec := range r.Records {
		row := make([]Cell, len(headers))
		for i, h := range headers {
			row[i] = rec[h]
		}
		table = append(table, row)
	}

	return table
}
