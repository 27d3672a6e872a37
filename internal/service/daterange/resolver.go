package daterange

import (
	"context"
	"strconv"
	"time"

	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/pkg/constants"
	"github.com/ougirez/xformreports/internal/pkg/logger"
)

// Session stores the window chosen by a user between requests.
type Session interface {
	GetTime(key string) (time.Time, bool)
	SetTime(key string, t time.Time)
}

type BoundsStore interface {
	SubmissionBounds(ctx context.Context) (*domain.SubmissionBounds, error)
}

// Request holds the date inputs of one request, from most to least specific.
type Request struct {
	// PostedStart and PostedEnd come from a submitted date range form.
	PostedStart *time.Time
	PostedEnd   *time.Time
	// QueryStart and QueryEnd are unix timestamps from the query string.
	QueryStart string
	QueryEnd   string
}

// Dates is the resolved window plus the bounds of all submissions. Any
// field may be nil when it could not be determined.
type Dates struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
	Min   *time.Time `json:"min,omitempty"`
	Max   *time.Time `json:"max,omitempty"`
}

func (d Dates) Range() (Range, bool) {
	if d.Start == nil || d.End == nil {
		return Range{}, false
	}
	return Range{Start: *d.Start, End: *d.End}, true
}

type Resolver struct {
	store BoundsStore
}

func NewResolver(store BoundsStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve picks the window from, in order: posted values, query timestamps
// and previously stored session values. Posted and query windows are saved
// into the session. Resolve never fails; store errors leave Min and Max unset.
func (r *Resolver) Resolve(ctx context.Context, req Request, session Session) Dates {
	var dates Dates

	if req.PostedStart != nil && req.PostedEnd != nil {
		dates.Start, dates.End = req.PostedStart, req.PostedEnd
	} else if start, end, ok := fromQuery(req.QueryStart, req.QueryEnd); ok {
		dates.Start, dates.End = &start, &end
	}

	if dates.Start != nil {
		session.SetTime(constants.SessionKeyStartDate, *dates.Start)
		session.SetTime(constants.SessionKeyEndDate, *dates.End)
	} else {
		start, okStart := session.GetTime(constants.SessionKeyStartDate)
		end, okEnd := session.GetTime(constants.SessionKeyEndDate)
		if okStart && okEnd {
			dates.Start, dates.End = &start, &end
		}
	}

	bounds, err := r.store.SubmissionBounds(ctx)
	if err != nil {
		logger.Warnf(ctx, "SubmissionBounds: %s", err.Error())
		return dates
	}
	dates.Min, dates.Max = bounds.Min, bounds.Max

	return dates
}

func fromQuery(start, end string) (time.Time, time.Time, bool) {
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, false
	}

	startUnix, err := strconv.ParseInt(start, 10, 64)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	endUnix, err := strconv.ParseInt(end, 10, 64)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	return time.Unix(startUnix, 0).UTC(), time.Unix(endUnix, 0).UTC(), true
}
