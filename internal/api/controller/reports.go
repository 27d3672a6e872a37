package controller

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/domain/dto"
	"github.com/ougirez/xformreports/internal/pkg/constants"
	"github.com/ougirez/xformreports/internal/pkg/logger"
	"github.com/ougirez/xformreports/internal/pkg/store"
	"github.com/ougirez/xformreports/internal/service/daterange"
	"github.com/ougirez/xformreports/internal/service/export"
	"github.com/ougirez/xformreports/internal/service/report"
)

type reportRequest struct {
	LocationID int64    `param:"id" validate:"required,gt=0"`
	Keywords   []string `query:"keyword"`
	// Attributes are either a bare slug or name=slug1,slug2 to sum several
	// attributes into one series.
	Attributes []string `query:"attribute"`
	RollUp     bool     `query:"rollup"`
	Approved   string   `query:"approved" validate:"omitempty,oneof=true false"`
	BackendIDs []int64  `query:"backend_id"`
	StartDate  string   `query:"start_date"`
	EndDate    string   `query:"end_date"`
	Bucket     string   `query:"bucket" validate:"omitempty,oneof=day week month quarter"`
	Format     string   `query:"format" validate:"omitempty,oneof=csv xlsx"`
}

// window resolves the reporting window of the request, falling back to the
// last month when nothing was chosen yet.
func (c *Controller) window(ctx echo.Context, req reportRequest) store.Window {
	dates := c.dates.Resolve(ctx.Request().Context(), daterange.Request{
		QueryStart: req.StartDate,
		QueryEnd:   req.EndDate,
	}, session(ctx))

	r, ok := dates.Range()
	if !ok {
		r, _ = daterange.RangeForCode(daterange.CodeMonth, time.Now())
	}

	return store.Window{Start: r.Start, End: r.End}
}

func (req reportRequest) filters() []store.Filter {
	var filters []store.Filter
	if req.Approved != "" {
		filters = append(filters, store.Eq(store.FieldApproved, req.Approved == "true"))
	}
	if len(req.BackendIDs) > 0 {
		ids := make([]any, len(req.BackendIDs))
		for i, id := range req.BackendIDs {
			ids[i] = id
		}
		filters = append(filters, store.In(store.FieldBackendID, ids...))
	}
	return filters
}

func parseAttributeSeries(params []string) (map[string][]string, error) {
	series := make(map[string][]string, len(params))
	for _, p := range params {
		name, slugs, found := strings.Cut(p, "=")
		if !found {
			slugs = name
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty attribute series name", constants.ErrInvalidParam)
		}

		for _, slug := range strings.Split(slugs, ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				series[name] = append(series[name], slug)
			}
		}
		if len(series[name]) == 0 {
			return nil, fmt.Errorf("%w: attribute series %s has no attributes", constants.ErrInvalidParam, name)
		}
	}
	return series, nil
}

// attributeSlugs flattens the slugs of every series into one list, ordered
// by series name and without repeats.
func attributeSlugs(series map[string][]string) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]struct{})
	var slugs []string
	for _, name := range names {
		for _, slug := range series[name] {
			if _, ok := seen[slug]; ok {
				continue
			}
			seen[slug] = struct{}{}
			slugs = append(slugs, slug)
		}
	}
	return slugs
}

func (c *Controller) locationReportRequest(ctx echo.Context, req reportRequest) (report.LocationReportRequest, error) {
	attributes, err := parseAttributeSeries(req.Attributes)
	if err != nil {
		return report.LocationReportRequest{}, err
	}

	return report.LocationReportRequest{
		LocationID: req.LocationID,
		Window:     c.window(ctx, req),
		Keywords:   req.Keywords,
		Attributes: attributes,
		Filters:    req.filters(),
		RollUp:     req.RollUp,
	}, nil
}

type locationReportResponse struct {
	Start time.Time               `json:"start"`
	End   time.Time               `json:"end"`
	Rows  []dto.LocationReportRow `json:"rows"`
}

func (c *Controller) GetSubmissionsReport(ctx echo.Context) error {
	var req reportRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if len(req.Keywords) == 0 {
		return fmt.Errorf("%w: keyword is required", constants.ErrInvalidParam)
	}
	req.Attributes = nil

	return c.locationReport(ctx, req)
}

func (c *Controller) GetAttributesReport(ctx echo.Context) error {
	var req reportRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if len(req.Attributes) == 0 {
		return fmt.Errorf("%w: attribute is required", constants.ErrInvalidParam)
	}
	req.Keywords = nil

	return c.locationReport(ctx, req)
}

func (c *Controller) locationReport(ctx echo.Context, req reportRequest) error {
	reportReq, err := c.locationReportRequest(ctx, req)
	if err != nil {
		return err
	}

	locationReport, err := c.reports.LocationReport(ctx.Request().Context(), reportReq)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, locationReportResponse{
		Start: reportReq.Window.Start,
		End:   reportReq.Window.End,
		Rows:  dto.LocationRows(locationReport),
	})
}

type timeSeriesResponse struct {
	Bucket    domain.TimeBucket `json:"bucket"`
	Locations []string          `json:"locations"`
	Points    []dto.TimePoint   `json:"points"`
}

func (c *Controller) GetTimeSeries(ctx echo.Context) error {
	var req reportRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if len(req.Keywords) != 1 && len(req.Attributes) == 0 {
		return fmt.Errorf("%w: exactly one keyword or some attributes are required", constants.ErrInvalidParam)
	}

	var bucket domain.TimeBucket
	if req.Bucket != "" {
		var err error
		if bucket, err = domain.ParseTimeBucket(req.Bucket); err != nil {
			return fmt.Errorf("%w: %s", constants.ErrInvalidParam, err.Error())
		}
	}

	tsReq := report.TimeSeriesRequest{
		LocationID: req.LocationID,
		Window:     c.window(ctx, req),
		Bucket:     bucket,
		Filters:    req.filters(),
		RollUp:     req.RollUp,
	}
	if len(req.Attributes) > 0 {
		series, err := parseAttributeSeries(req.Attributes)
		if err != nil {
			return err
		}
		tsReq.Attributes = attributeSlugs(series)
	} else {
		tsReq.Keyword = req.Keywords[0]
	}

	series, err := c.reports.TimeSeries(ctx.Request().Context(), tsReq)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, timeSeriesResponse{
		Bucket:    series.Bucket,
		Locations: series.Locations(),
		Points:    series.Points(),
	})
}

func (c *Controller) ExportReport(ctx echo.Context) error {
	var req reportRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if len(req.Keywords) == 0 && len(req.Attributes) == 0 {
		return fmt.Errorf("%w: keyword or attribute is required", constants.ErrInvalidParam)
	}

	reportReq, err := c.locationReportRequest(ctx, req)
	if err != nil {
		return err
	}

	res, err := c.reports.ExportLocationReport(ctx.Request().Context(), reportReq, export.Options{
		OutputName: "report_" + strconv.FormatInt(req.LocationID, 10),
		ForceCSV:   req.Format == "csv",
		Encoding:   c.exportEncoding,
	})
	if err != nil {
		return err
	}

	logger.Infof(ctx.Request().Context(), "exported %s (%d bytes)", res.Filename, len(res.Body))

	ctx.Response().Header().Set(echo.HeaderContentDisposition, res.ContentDisposition())
	return ctx.Blob(http.StatusOK, res.MimeType, res.Body)
}
