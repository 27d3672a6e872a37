package store

import (
	"context"
	"errors"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ougirez/xformreports/internal/domain"
)

type stubPool struct {
	selects  []string
	childIDs []int64
	err      error
}

func (p *stubPool) Getx(_ context.Context, _ any, _ sq.Sqlizer) error {
	return p.err
}

func (p *stubPool) Selectx(_ context.Context, dest any, q sq.Sqlizer) error {
	sql, _, err := q.ToSql()
	if err != nil {
		return err
	}
	p.selects = append(p.selects, sql)

	if p.err != nil {
		return p.err
	}
	if ids, ok := dest.(*[]int64); ok {
		*ids = append([]int64{}, p.childIDs...)
	}
	return nil
}

func (p *stubPool) Execx(_ context.Context, _ sq.Sqlizer) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, p.err
}

func TestAggregatesRequireLocation(t *testing.T) {
	pool := &stubPool{}
	s := NewStore(pool)

	if _, err := s.SubmissionCounts(context.Background(), SubmissionCountsOpts{Keyword: "epi", Window: window}); !errors.Is(err, errNoLocation) {
		t.Fatalf("SubmissionCounts: expected errNoLocation, got %v", err)
	}
	if _, err := s.AttributeSums(context.Background(), AttributeSumsOpts{Attributes: []string{"epi_ma"}, Window: window}); !errors.Is(err, errNoLocation) {
		t.Fatalf("AttributeSums: expected errNoLocation, got %v", err)
	}
	if len(pool.selects) != 0 {
		t.Fatalf("expected no queries, got %v", pool.selects)
	}
}

func TestRollUpWithoutChildrenSkipsAggregation(t *testing.T) {
	pool := &stubPool{}
	s := NewStore(pool)

	rows, err := s.SubmissionCounts(context.Background(), SubmissionCountsOpts{
		Keyword:  "epi",
		Window:   window,
		Location: kampala,
		RollUp:   true,
	})
	if err != nil {
		t.Fatalf("SubmissionCounts: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty rows, got %#v", rows)
	}

	sums, err := s.AttributeSums(context.Background(), AttributeSumsOpts{
		Attributes: []string{"epi_ma"},
		Window:     window,
		Location:   kampala,
		RollUp:     true,
	})
	if err != nil {
		t.Fatalf("AttributeSums: %v", err)
	}
	if sums == nil || len(sums) != 0 {
		t.Fatalf("expected empty sums, got %#v", sums)
	}

	if len(pool.selects) != 2 {
		t.Fatalf("expected only the two child lookups, got %v", pool.selects)
	}
	for _, sql := range pool.selects {
		mustContain(t, sql, "SELECT id FROM locations_location WHERE parent_id = $1")
	}
}

func TestRollUpGroupsByChildren(t *testing.T) {
	pool := &stubPool{childIDs: []int64{8, 9}}
	s := NewStore(pool)

	if _, err := s.SubmissionCounts(context.Background(), SubmissionCountsOpts{
		Keyword:  "epi",
		Window:   window,
		Location: kampala,
		RollUp:   true,
	}); err != nil {
		t.Fatalf("SubmissionCounts: %v", err)
	}

	if len(pool.selects) != 2 {
		t.Fatalf("expected child lookup and aggregation, got %v", pool.selects)
	}
	mustContain(t, pool.selects[1], "count(s.id) AS value", "l.id IN ($")
}

func TestRollUpChildLookupError(t *testing.T) {
	lookupErr := errors.New("connection reset")
	pool := &stubPool{err: lookupErr}
	s := NewStore(pool)

	_, err := s.AttributeSums(context.Background(), AttributeSumsOpts{
		Attributes: []string{"epi_ma"},
		Window:     window,
		Location:   kampala,
		RollUp:     true,
	})
	if !errors.Is(err, lookupErr) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if len(pool.selects) != 1 {
		t.Fatalf("expected aggregation to be skipped, got %v", pool.selects)
	}
}

func TestSubmissionCountsWithoutRollUp(t *testing.T) {
	pool := &stubPool{}
	s := NewStore(pool)

	rows, err := s.SubmissionCounts(context.Background(), SubmissionCountsOpts{
		Keyword:  "epi",
		Window:   window,
		Location: kampala,
		Bucket:   domain.BucketNone,
	})
	if err != nil {
		t.Fatalf("SubmissionCounts: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows from stub, got %d", len(rows))
	}
	if len(pool.selects) != 1 {
		t.Fatalf("expected a single aggregation query, got %v", pool.selects)
	}
	mustContain(t, pool.selects[0], "x.keyword = $", "l.lft >= $")
}
