package xpgx

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRows struct {
	fields []pgconn.FieldDescription
	values [][]any
	pos    int
	closed bool
}

func newFakeRows(columns []string, values ...[]any) *fakeRows {
	fields := make([]pgconn.FieldDescription, 0, len(columns))
	for _, c := range columns {
		fields = append(fields, pgconn.FieldDescription{Name: c})
	}
	return &fakeRows{fields: fields, values: values}
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.closed || r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.values[r.pos-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) == 1 {
		if rs, ok := dest[0].(pgx.RowScanner); ok {
			return rs.ScanRow(r)
		}
	}

	row := r.values[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d targets for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(row[i]))
	}
	return nil
}

type fakeConn struct {
	rows  *fakeRows
	err   error
	sql   string
	args  []any
	execs int
}

func (c *fakeConn) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.sql, c.args = sql, args
	if c.err != nil {
		return nil, c.err
	}
	return c.rows, nil
}

func (c *fakeConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.sql, c.args = sql, args
	c.execs++
	return pgconn.NewCommandTag("INSERT 0 1"), c.err
}

type named struct {
	Name string `db:"name"`
}

type place struct {
	named
	ID       int64  `db:"id"`
	ParentID *int64 `db:"parent_id"`
	Ignored  string `db:"-"`
}

func TestSelectxScansStructsByColumnName(t *testing.T) {
	parent := int64(3)
	conn := &fakeConn{rows: newFakeRows(
		[]string{"extra", "id", "name", "parent_id"},
		[]any{"x", int64(1), "Kampala", nil},
		[]any{"y", int64(2), "Gulu", &parent},
	)}

	var selected []*place
	err := New(conn).Selectx(context.Background(), &selected, sq.Select("id", "name").From("locations").Where(sq.Eq{"id": 1}))
	if err != nil {
		t.Fatalf("Selectx: %s", err)
	}

	if conn.sql != "SELECT id, name FROM locations WHERE id = ?" || len(conn.args) != 1 {
		t.Fatalf("unexpected query %q %v", conn.sql, conn.args)
	}
	if len(selected) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(selected))
	}
	if selected[0].ID != 1 || selected[0].Name != "Kampala" || selected[0].ParentID != nil {
		t.Fatalf("unexpected first row %+v", selected[0])
	}
	if selected[1].Name != "Gulu" || selected[1].ParentID == nil || *selected[1].ParentID != 3 {
		t.Fatalf("unexpected second row %+v", selected[1])
	}
	if !conn.rows.closed {
		t.Fatalf("rows were not closed")
	}
}

func TestSelectxScalarsAndValues(t *testing.T) {
	conn := &fakeConn{rows: newFakeRows([]string{"id"}, []any{int64(4)}, []any{int64(9)})}

	var ids []int64
	if err := New(conn).Selectx(context.Background(), &ids, sq.Select("id").From("locations")); err != nil {
		t.Fatalf("Selectx: %s", err)
	}
	if !reflect.DeepEqual(ids, []int64{4, 9}) {
		t.Fatalf("unexpected ids %v", ids)
	}

	conn.rows = newFakeRows([]string{"id", "name"}, []any{int64(1), "Mbale"})
	var places []place
	if err := New(conn).Selectx(context.Background(), &places, sq.Select("id", "name").From("locations")); err != nil {
		t.Fatalf("Selectx: %s", err)
	}
	if len(places) != 1 || places[0].Name != "Mbale" {
		t.Fatalf("unexpected places %+v", places)
	}
}

func TestSelectxEmptyResultIsNotNil(t *testing.T) {
	conn := &fakeConn{rows: newFakeRows([]string{"id"})}

	var ids []int64
	if err := New(conn).Selectx(context.Background(), &ids, sq.Select("id").From("locations")); err != nil {
		t.Fatalf("Selectx: %s", err)
	}
	if ids == nil || len(ids) != 0 {
		t.Fatalf("expected empty slice, got %#v", ids)
	}
}

func TestSelectxRejectsNonSlice(t *testing.T) {
	conn := &fakeConn{rows: newFakeRows([]string{"id"})}

	var p place
	if err := New(conn).Selectx(context.Background(), &p, sq.Select("id").From("locations")); err == nil {
		t.Fatalf("expected error for non-slice dest")
	}
	if conn.sql != "" {
		t.Fatalf("query ran for invalid dest: %q", conn.sql)
	}
}

func TestGetx(t *testing.T) {
	conn := &fakeConn{rows: newFakeRows([]string{"id", "name"}, []any{int64(7), "Kampala"})}

	var p place
	if err := New(conn).Getx(context.Background(), &p, sq.Select("id", "name").From("locations")); err != nil {
		t.Fatalf("Getx: %s", err)
	}
	if p.ID != 7 || p.Name != "Kampala" {
		t.Fatalf("unexpected row %+v", p)
	}

	conn.rows = newFakeRows([]string{"id", "name"})
	if err := New(conn).Getx(context.Background(), &p, sq.Select("id", "name").From("locations")); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}

	if err := New(conn).Getx(context.Background(), p, sq.Select("id").From("locations")); err == nil {
		t.Fatalf("expected error for non-pointer dest")
	}
}

func TestQueryErrors(t *testing.T) {
	queryErr := errors.New("connection reset")
	conn := &fakeConn{err: queryErr}

	var ids []int64
	if err := New(conn).Selectx(context.Background(), &ids, sq.Select("id").From("locations")); !errors.Is(err, queryErr) {
		t.Fatalf("expected query error, got %v", err)
	}

	bad := sq.Select().From("locations")
	if err := New(conn).Selectx(context.Background(), &ids, bad); err == nil {
		t.Fatalf("expected ToSql error for empty column list")
	}
}

func TestExecx(t *testing.T) {
	conn := &fakeConn{}

	tag, err := New(conn).Execx(context.Background(), sq.Insert("backends").Columns("name").Values("console"))
	if err != nil {
		t.Fatalf("Execx: %s", err)
	}
	if conn.execs != 1 || conn.sql != "INSERT INTO backends (name) VALUES (?)" {
		t.Fatalf("unexpected exec %d %q", conn.execs, conn.sql)
	}
	if tag.RowsAffected() != 1 {
		t.Fatalf("expected 1 row affected, got %d", tag.RowsAffected())
	}
}
