package dto

import (
	"sort"
	"sync"
	"time"

	"github.com/ougirez/xformreports/internal/domain"
	"github.com/shopspring/decimal"
)

// KeyedEntry is one row of a KeyedReport: the carried metadata plus one
// value per series.
type KeyedEntry[M any, V any] struct {
	Meta   M            `json:"meta"`
	Series map[string]V `json:"series"`
}

// KeyedReport pivots rows of R into entries keyed by K. Every AddSeries
// call writes only its own series key into each entry, so reports for
// several series can be accumulated into one.
type KeyedReport[R any, K comparable, M any, V any] struct {
	key   func(R) K
	meta  func(R) M
	value func(R) V

	entries   map[K]*KeyedEntry[M, V]
	order     []K
	entriesMx sync.Mutex
}

func NewKeyedReport[R any, K comparable, M any, V any](
	key func(R) K,
	meta func(R) M,
	value func(R) V,
) *KeyedReport[R, K, M, V] {
	return &KeyedReport[R, K, M, V]{
		key:     key,
		meta:    meta,
		value:   value,
		entries: make(map[K]*KeyedEntry[M, V]),
	}
}

func (r *KeyedReport[R, K, M, V]) AddSeries(seriesKey string, rows []R) {
	r.entriesMx.Lock()
	defer r.entriesMx.Unlock()

	for _, row := range rows {
		entry := r.getEntry(row)
		entry.Series[seriesKey] = r.value(row)
	}
}

// getEntry returns the entry for row's key, creating it with row's metadata
// on first sight. Metadata of an existing entry is never replaced.
func (r *KeyedReport[R, K, M, V]) getEntry(row R) *KeyedEntry[M, V] {
	k := r.key(row)

	entry, ok := r.entries[k]
	if !ok {
		entry = &KeyedEntry[M, V]{
			Meta:   r.meta(row),
			Series: make(map[string]V),
		}
		r.entries[k] = entry
		r.order = append(r.order, k)
	}

	return entry
}

func (r *KeyedReport[R, K, M, V]) Get(k K) (*KeyedEntry[M, V], bool) {
	r.entriesMx.Lock()
	defer r.entriesMx.Unlock()

	entry, ok := r.entries[k]
	return entry, ok
}

// Keys returns entry keys in first-seen order.
func (r *KeyedReport[R, K, M, V]) Keys() []K {
	r.entriesMx.Lock()
	defer r.entriesMx.Unlock()

	return append([]K(nil), r.order...)
}

func (r *KeyedReport[R, K, M, V]) Len() int {
	r.entriesMx.Lock()
	defer r.entriesMx.Unlock()

	return len(r.entries)
}

type LocationMeta struct {
	LocationName string `json:"location_name"`
	// Diff is rght - lft of the location.
	Diff int64 `json:"diff"`
}

// LocationReport holds aggregate values per location id and series.
type LocationReport = KeyedReport[*domain.AggregateRow, int64, LocationMeta, decimal.Decimal]

func NewLocationReport() *LocationReport {
	return NewKeyedReport(
		func(row *domain.AggregateRow) int64 { return row.LocationID },
		func(row *domain.AggregateRow) LocationMeta {
			return LocationMeta{LocationName: row.LocationName, Diff: row.Rght - row.Lft}
		},
		func(row *domain.AggregateRow) decimal.Decimal { return row.Value },
	)
}

type LocationReportRow struct {
	LocationID int64 `json:"location_id"`
	LocationMeta
	Series map[string]decimal.Decimal `json:"series"`
}

// LocationRows flattens a location report in first-seen order.
func LocationRows(r *LocationReport) []LocationReportRow {
	keys := r.Keys()
	rows := make([]LocationReportRow, 0, len(keys))
	for _, k := range keys {
		entry, _ := r.Get(k)
		rows = append(rows, LocationReportRow{LocationID: k, LocationMeta: entry.Meta, Series: entry.Series})
	}
	return rows
}

// TimeSeriesReport holds aggregate values per bucket timestamp and location
// name, for charts.
type TimeSeriesReport struct {
	Bucket domain.TimeBucket

	points    map[time.Time]map[string]decimal.Decimal
	locations []string
	seen      map[string]struct{}
	pointsMx  sync.Mutex
}

func NewTimeSeriesReport(bucket domain.TimeBucket) *TimeSeriesReport {
	return &TimeSeriesReport{
		Bucket: bucket,
		points: make(map[time.Time]map[string]decimal.Decimal),
		seen:   make(map[string]struct{}),
	}
}

// AddSeries stores each row's value under the timestamp rebuilt from its
// (year, bucket) pair and its location name. Location names are recorded
// in first-seen order.
func (r *TimeSeriesReport) AddSeries(rows []*domain.AggregateRow) {
	r.pointsMx.Lock()
	defer r.pointsMx.Unlock()

	for _, row := range rows {
		ts := r.Bucket.Time(row.Year, row.Bucket)

		point, ok := r.points[ts]
		if !ok {
			point = make(map[string]decimal.Decimal)
			r.points[ts] = point
		}
		point[row.LocationName] = row.Value

		if _, ok := r.seen[row.LocationName]; !ok {
			r.seen[row.LocationName] = struct{}{}
			r.locations = append(r.locations, row.LocationName)
		}
	}
}

func (r *TimeSeriesReport) Locations() []string {
	r.pointsMx.Lock()
	defer r.pointsMx.Unlock()

	return append([]string(nil), r.locations...)
}

func (r *TimeSeriesReport) Value(ts time.Time, location string) (decimal.Decimal, bool) {
	r.pointsMx.Lock()
	defer r.pointsMx.Unlock()

	v, ok := r.points[ts][location]
	return v, ok
}

type TimePoint struct {
	Time   time.Time                  `json:"time"`
	Values map[string]decimal.Decimal `json:"values"`
}

// Points returns the series ordered by time.
func (r *TimeSeriesReport) Points() []TimePoint {
	r.pointsMx.Lock()
	defer r.pointsMx.Unlock()

	points := make([]TimePoint, 0, len(r.points))
	for ts, values := range r.points {
		points = append(points, TimePoint{Time: ts, Values: values})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})

	return points
}
