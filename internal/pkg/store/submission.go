package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/pkg/constants"
	"github.com/ougirez/xformreports/internal/pkg/logger"
)

// Window is an inclusive [Start, End] range over submission creation time.
type Window struct {
	Start time.Time
	End   time.Time
}

type SubmissionCountsOpts struct {
	Keyword  string
	Window   Window
	Location *domain.Location
	Filters  []Filter
	Bucket   domain.TimeBucket
	// RollUp groups rows by the direct children of Location, each child
	// aggregating its whole subtree, instead of by reporting location.
	RollUp bool
}

type AttributeSumsOpts struct {
	Attributes []string
	Window     Window
	Location   *domain.Location
	Bucket     domain.TimeBucket
	RollUp     bool
}

var errNoLocation = errors.New("location is required")

func (s *store) SubmissionCounts(ctx context.Context, opts SubmissionCountsOpts) ([]*domain.AggregateRow, error) {
	if opts.Location == nil {
		return nil, errNoLocation
	}

	children, ok, err := s.rollUpChildren(ctx, opts.Location, opts.RollUp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*domain.AggregateRow{}, nil
	}

	query, err := submissionCountsQuery(opts, children)
	if err != nil {
		return nil, err
	}

	var selected []*domain.AggregateRow
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		logger.Errorf(ctx, "SubmissionCounts, keyword-%s: %s", opts.Keyword, err.Error())
		return nil, err
	}

	return selected, nil
}

func (s *store) AttributeSums(ctx context.Context, opts AttributeSumsOpts) ([]*domain.AggregateRow, error) {
	if opts.Location == nil {
		return nil, errNoLocation
	}

	children, ok, err := s.rollUpChildren(ctx, opts.Location, opts.RollUp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*domain.AggregateRow{}, nil
	}

	query, err := attributeSumsQuery(opts, children)
	if err != nil {
		return nil, err
	}

	var selected []*domain.AggregateRow
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		logger.Errorf(ctx, "AttributeSums, attributes-%v: %s", opts.Attributes, err.Error())
		return nil, err
	}

	return selected, nil
}

// rollUpChildren loads the child ids a rolled-up query groups by. ok is
// false when there is nothing to group by, in which case the query must not run.
func (s *store) rollUpChildren(ctx context.Context, loc *domain.Location, rollUp bool) ([]int64, bool, error) {
	if !rollUp {
		return nil, true, nil
	}

	children, err := s.ListChildLocationIDs(ctx, loc.ID)
	if err != nil {
		return nil, false, fmt.Errorf("ListChildLocationIDs: %w", err)
	}
	if len(children) == 0 {
		logger.Debugf(ctx, "location %d has no children, nothing to roll up", loc.ID)
		return nil, false, nil
	}

	return children, true, nil
}

func (s *store) SubmissionBounds(ctx context.Context) (*domain.SubmissionBounds, error) {
	query := builder().
		Select("min(created) AS min_created", "max(created) AS max_created").
		From(tableSubmissions)

	var selected domain.SubmissionBounds
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

func submissionCountsQuery(opts SubmissionCountsOpts, children []int64) (sq.SelectBuilder, error) {
	query := aggregateSelect("count(s.id)", opts.Bucket).
		From(tableSubmissions + " s").
		Join(tableXForms + " x ON x.id = s.xform_id").
		Where(sq.Eq{"x.keyword": opts.Keyword})

	query = fromReporters(query, opts.Location, children).
		Where(sq.Eq{"s.has_errors": false}).
		Where(windowSql(opts.Window))

	if len(opts.Filters) > 0 {
		filters, err := filtersSql(opts.Filters)
		if err != nil {
			return query, err
		}
		query = query.Where(filters)
	}

	return groupAndOrder(query, opts.Bucket), nil
}

func attributeSumsQuery(opts AttributeSumsOpts, children []int64) (sq.SelectBuilder, error) {
	if len(opts.Attributes) == 0 {
		return sq.SelectBuilder{}, fmt.Errorf("%w: no attributes to sum", constants.ErrInvalidFilter)
	}

	query := aggregateSelect("coalesce(sum(v.value_int), 0)", opts.Bucket).
		From(tableSubmissionValues + " sv").
		Join(tableValues + " v ON v.id = sv.value_ptr_id").
		Join(tableAttributes + " a ON a.id = v.attribute_id").
		Join(tableSubmissions + " s ON s.id = sv.submission_id").
		Where(sq.Eq{"a.slug": opts.Attributes})

	query = fromReporters(query, opts.Location, children).
		Where(sq.Eq{"s.has_errors": false}).
		Where(windowSql(opts.Window))

	return groupAndOrder(query, opts.Bucket), nil
}

func aggregateSelect(value string, bucket domain.TimeBucket) sq.SelectBuilder {
	columns := []string{"l.name AS location_name", "l.id AS location_id", "l.lft", "l.rght"}
	if bucket != domain.BucketNone {
		columns = append(columns,
			bucket.Extract(columnSubmissionCreate)+" AS bucket",
			"extract(year from "+columnSubmissionCreate+")::int AS year",
		)
	}
	columns = append(columns, value+" AS value")

	return builder().Select(columns...)
}

// fromReporters joins the submitting contact's reporting location as l and
// restricts it to the subtree of loc. With children set, l is instead the
// child of loc whose subtree holds the reporting location.
func fromReporters(query sq.SelectBuilder, loc *domain.Location, children []int64) sq.SelectBuilder {
	query = query.
		Join(tableConnections + " c ON c.id = s.connection_id").
		Join(tableContacts + " ct ON ct.id = c.contact_id")

	if children == nil {
		return query.
			Join(tableLocations + " l ON l.id = ct.reporting_location_id").
			Where(subtreeSql("l", loc))
	}

	return query.
		Join(tableLocations + " rl ON rl.id = ct.reporting_location_id").
		Join(tableLocations + " l ON l.tree_id = rl.tree_id AND l.lft <= rl.lft AND l.rght >= rl.rght").
		Where(subtreeSql("rl", loc)).
		Where(sq.Eq{"l.id": children})
}

func subtreeSql(alias string, loc *domain.Location) sq.Sqlizer {
	return sq.And{
		sq.Eq{alias + ".tree_id": loc.TreeID},
		sq.GtOrEq{alias + ".lft": loc.Lft},
		sq.LtOrEq{alias + ".rght": loc.Rght},
	}
}

func windowSql(w Window) sq.Sqlizer {
	return sq.And{
		sq.GtOrEq{columnSubmissionCreate: w.Start},
		sq.LtOrEq{columnSubmissionCreate: w.End},
	}
}

func groupAndOrder(query sq.SelectBuilder, bucket domain.TimeBucket) sq.SelectBuilder {
	query = query.GroupBy("l.name", "l.id", "l.lft", "l.rght")
	if bucket == domain.BucketNone {
		return query.OrderBy("location_name")
	}
	return query.GroupBy("bucket", "year").OrderBy("location_name", "year", "bucket")
}
