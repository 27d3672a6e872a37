package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/domain/dto"
	"github.com/ougirez/xformreports/internal/pkg/constants"
	"github.com/ougirez/xformreports/internal/pkg/logger"
	"github.com/ougirez/xformreports/internal/pkg/metrics"
	"github.com/ougirez/xformreports/internal/pkg/store"
	"github.com/ougirez/xformreports/internal/service/daterange"
	"github.com/ougirez/xformreports/internal/service/export"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	kindSubmissions = "submissions"
	kindAttributes  = "attributes"

	columnLocation = "location"
)

type Service struct {
	store    store.Store
	exporter *export.Exporter
}

func NewReportService(store store.Store, exporter *export.Exporter) *Service {
	return &Service{store: store, exporter: exporter}
}

type LocationReportRequest struct {
	LocationID int64
	Window     store.Window
	// Keywords each add a series of submission counts keyed by keyword.
	Keywords []string
	// Attributes each add a series of summed values keyed by the series
	// name; a series may sum several attributes.
	Attributes map[string][]string
	Filters    []store.Filter
	RollUp     bool
}

type TimeSeriesRequest struct {
	LocationID int64
	Window     store.Window
	Keyword    string
	// Attributes, when set, are summed instead of counting Keyword.
	Attributes []string
	// Bucket defaults to daterange.BucketForWindow of Window.
	Bucket  domain.TimeBucket
	Filters []store.Filter
	RollUp  bool
}

func (s *Service) SubmissionCounts(ctx context.Context, opts store.SubmissionCountsOpts) ([]*domain.AggregateRow, error) {
	start := time.Now()
	rows, err := s.store.SubmissionCounts(ctx, opts)
	observe(kindSubmissions, start, err)
	if err != nil {
		return nil, fmt.Errorf("store.SubmissionCounts, keyword-%s: %w", opts.Keyword, err)
	}
	return rows, nil
}

func (s *Service) AttributeSums(ctx context.Context, opts store.AttributeSumsOpts) ([]*domain.AggregateRow, error) {
	start := time.Now()
	rows, err := s.store.AttributeSums(ctx, opts)
	observe(kindAttributes, start, err)
	if err != nil {
		return nil, fmt.Errorf("store.AttributeSums, attributes-%v: %w", opts.Attributes, err)
	}
	return rows, nil
}

// LocationReport runs one query per series and merges them into a single
// report keyed by location.
func (s *Service) LocationReport(ctx context.Context, req LocationReportRequest) (*dto.LocationReport, error) {
	if err := validateSeries(req); err != nil {
		return nil, err
	}

	loc, err := s.store.GetLocation(ctx, req.LocationID)
	if err != nil {
		return nil, fmt.Errorf("store.GetLocation, id-%d: %w", req.LocationID, err)
	}

	type series struct {
		key  string
		rows []*domain.AggregateRow
	}

	attributeKeys := sortedKeys(req.Attributes)
	results := make([]series, len(req.Keywords)+len(attributeKeys))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, keyword := range req.Keywords {
		i, keyword := i, keyword
		eg.Go(func() error {
			rows, err := s.SubmissionCounts(egCtx, store.SubmissionCountsOpts{
				Keyword:  keyword,
				Window:   req.Window,
				Location: loc,
				Filters:  req.Filters,
				RollUp:   req.RollUp,
			})
			results[i] = series{key: keyword, rows: rows}
			return err
		})
	}
	for j, key := range attributeKeys {
		i, key := len(req.Keywords)+j, key
		eg.Go(func() error {
			rows, err := s.AttributeSums(egCtx, store.AttributeSumsOpts{
				Attributes: req.Attributes[key],
				Window:     req.Window,
				Location:   loc,
				RollUp:     req.RollUp,
			})
			results[i] = series{key: key, rows: rows}
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Series are merged in request order so locations keep a stable order.
	report := dto.NewLocationReport()
	for _, r := range results {
		report.AddSeries(r.key, r.rows)
	}

	logger.Debugf(ctx, "location report for %s: %d locations", loc.Name, report.Len())

	return report, nil
}

func (s *Service) TimeSeries(ctx context.Context, req TimeSeriesRequest) (*dto.TimeSeriesReport, error) {
	loc, err := s.store.GetLocation(ctx, req.LocationID)
	if err != nil {
		return nil, fmt.Errorf("store.GetLocation, id-%d: %w", req.LocationID, err)
	}

	bucket := req.Bucket
	if bucket == domain.BucketNone {
		bucket = daterange.BucketForWindow(req.Window.Start, req.Window.End)
	}

	var rows []*domain.AggregateRow
	if len(req.Attributes) > 0 {
		rows, err = s.AttributeSums(ctx, store.AttributeSumsOpts{
			Attributes: req.Attributes,
			Window:     req.Window,
			Location:   loc,
			Bucket:     bucket,
			RollUp:     req.RollUp,
		})
	} else {
		rows, err = s.SubmissionCounts(ctx, store.SubmissionCountsOpts{
			Keyword:  req.Keyword,
			Window:   req.Window,
			Location: loc,
			Filters:  req.Filters,
			Bucket:   bucket,
			RollUp:   req.RollUp,
		})
	}
	if err != nil {
		return nil, err
	}

	report := dto.NewTimeSeriesReport(bucket)
	report.AddSeries(rows)

	return report, nil
}

// ExportLocationReport renders a location report with one column per
// series, in the order the series were requested.
func (s *Service) ExportLocationReport(ctx context.Context, req LocationReportRequest, opts export.Options) (*export.Result, error) {
	report, err := s.LocationReport(ctx, req)
	if err != nil {
		return nil, err
	}

	headers := append([]string{columnLocation}, req.Keywords...)
	headers = append(headers, sortedKeys(req.Attributes)...)

	rows := dto.LocationRows(report)
	records := make([]map[string]export.Cell, 0, len(rows))
	for _, row := range rows {
		rec := map[string]export.Cell{columnLocation: row.LocationName}
		for _, h := range headers[1:] {
			if v, ok := row.Series[h]; ok {
				rec[h] = v
			} else {
				rec[h] = decimal.Zero
			}
		}
		records = append(records, rec)
	}

	res, err := s.exporter.Render(export.Records{Records: records, Headers: headers}, opts)
	if err != nil {
		return nil, fmt.Errorf("exporter.Render: %w", err)
	}

	return res, nil
}

// validateSeries rejects series keys that would share a report column,
// either with each other or with the location column.
func validateSeries(req LocationReportRequest) error {
	seen := make(map[string]struct{}, len(req.Keywords)+len(req.Attributes))
	for _, key := range append(append([]string(nil), req.Keywords...), sortedKeys(req.Attributes)...) {
		if key == columnLocation {
			return fmt.Errorf("%w: series name %q is reserved", constants.ErrInvalidParam, key)
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: duplicate series %q", constants.ErrInvalidParam, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func observe(kind string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ReportQueriesTotal.WithLabelValues(kind, result).Inc()
	metrics.ReportQueryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
