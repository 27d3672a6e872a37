package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/pkg/constants"
	"github.com/ougirez/xformreports/internal/service/daterange"
)

type getDatesRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

func (c *Controller) GetDates(ctx echo.Context) error {
	var req getDatesRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	dates := c.dates.Resolve(ctx.Request().Context(), daterange.Request{
		QueryStart: req.StartDate,
		QueryEnd:   req.EndDate,
	}, session(ctx))

	return ctx.JSON(http.StatusOK, dates)
}

type postDatesRequest struct {
	Start string `json:"start" form:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" form:"end" validate:"required,datetime=2006-01-02"`
}

func (c *Controller) PostDates(ctx echo.Context) error {
	var req postDatesRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	start, err := time.Parse(time.DateOnly, req.Start)
	if err != nil {
		return fmt.Errorf("%w: start: %s", constants.ErrInvalidParam, err.Error())
	}
	end, err := time.Parse(time.DateOnly, req.End)
	if err != nil {
		return fmt.Errorf("%w: end: %s", constants.ErrInvalidParam, err.Error())
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end before start", constants.ErrInvalidParam)
	}

	dates := c.dates.Resolve(ctx.Request().Context(), daterange.Request{
		PostedStart: &start,
		PostedEnd:   &end,
	}, session(ctx))

	return ctx.JSON(http.StatusOK, dates)
}

type dateRangeRequest struct {
	Code string `param:"code" validate:"required,oneof=w m q"`
}

type dateRangeResponse struct {
	Start  time.Time         `json:"start"`
	End    time.Time         `json:"end"`
	Bucket domain.TimeBucket `json:"bucket"`
}

func (c *Controller) GetDateRange(ctx echo.Context) error {
	var req dateRangeRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	r, err := daterange.RangeForCode(daterange.Code(req.Code), time.Now())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, dateRangeResponse{
		Start:  r.Start,
		End:    r.End,
		Bucket: daterange.BucketForWindow(r.Start, r.End),
	})
}
