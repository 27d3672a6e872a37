package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/xformreports/internal/pkg/constants"
)

// SubmissionField names a submission column that extra filters may constrain.
type SubmissionField string

const (
	FieldSubmissionID SubmissionField = "s.id"
	FieldXFormID      SubmissionField = "s.xform_id"
	FieldConnectionID SubmissionField = "s.connection_id"
	FieldMessageID    SubmissionField = "s.message_id"
	FieldCreated      SubmissionField = "s.created"
	FieldApproved     SubmissionField = "s.approved"
	FieldContactID    SubmissionField = "c.contact_id"
	FieldBackendID    SubmissionField = "c.backend_id"
	FieldIdentity     SubmissionField = "c.identity"
)

var knownFields = map[SubmissionField]struct{}{
	FieldSubmissionID: {},
	FieldXFormID:      {},
	FieldConnectionID: {},
	FieldMessageID:    {},
	FieldCreated:      {},
	FieldApproved:     {},
	FieldContactID:    {},
	FieldBackendID:    {},
	FieldIdentity:     {},
}

// Filter is an extra predicate over a submission and its connection.
type Filter interface {
	Field() SubmissionField
	sqlizer() sq.Sqlizer
}

type eqFilter struct {
	field SubmissionField
	value any
}

func (f eqFilter) Field() SubmissionField { return f.field }
func (f eqFilter) sqlizer() sq.Sqlizer    { return sq.Eq{string(f.field): f.value} }

type betweenFilter struct {
	field    SubmissionField
	from, to any
}

func (f betweenFilter) Field() SubmissionField { return f.field }
func (f betweenFilter) sqlizer() sq.Sqlizer {
	return sq.And{
		sq.GtOrEq{string(f.field): f.from},
		sq.LtOrEq{string(f.field): f.to},
	}
}

type inFilter struct {
	field  SubmissionField
	values []any
}

func (f inFilter) Field() SubmissionField { return f.field }
func (f inFilter) sqlizer() sq.Sqlizer    { return sq.Eq{string(f.field): f.values} }

func Eq(field SubmissionField, value any) Filter {
	return eqFilter{field: field, value: value}
}

// Between matches from <= field <= to.
func Between(field SubmissionField, from, to any) Filter {
	return betweenFilter{field: field, from: from, to: to}
}

func In(field SubmissionField, values ...any) Filter {
	return inFilter{field: field, values: values}
}

// filtersSql validates filters and joins them with AND.
func filtersSql(filters []Filter) (sq.Sqlizer, error) {
	and := make(sq.And, 0, len(filters))
	for _, f := range filters {
		if f == nil {
			return nil, fmt.Errorf("%w: nil filter", constants.ErrInvalidFilter)
		}
		if _, ok := knownFields[f.Field()]; !ok {
			return nil, fmt.Errorf("%w: unknown field %q", constants.ErrInvalidFilter, f.Field())
		}
		if in, ok := f.(inFilter); ok && len(in.values) == 0 {
			return nil, fmt.Errorf("%w: empty value set for %q", constants.ErrInvalidFilter, f.Field())
		}
		and = append(and, f.sqlizer())
	}
	return and, nil
}
