package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/pkg/logger"
)

var messageColumns = []string{"m.id", "m.text", "m.direction", "m.status", "m.application", "m.connection_id", "m.date"}

type UnhandledMessagesOpts struct {
	// Applications are the routes whose messages count as unhandled when
	// no submission or poll response claimed them.
	Applications []string
	Limit        uint64
	Offset       uint64
}

func (s *store) UnhandledIncomingMessages(ctx context.Context, opts UnhandledMessagesOpts) ([]*domain.Message, error) {
	query := unhandledMessagesQuery(opts)

	var selected []*domain.Message
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		logger.Error(ctx, err.Error())
		return nil, err
	}

	return selected, nil
}

func unhandledMessagesQuery(opts UnhandledMessagesOpts) sq.SelectBuilder {
	applications := sq.Or{sq.Eq{"m.application": nil}}
	if len(opts.Applications) > 0 {
		applications = append(applications, sq.Eq{"m.application": opts.Applications})
	}

	query := builder().Select(messageColumns...).
		From(tableMessages+" m").
		Where(sq.Eq{"m.direction": domain.DirectionIncoming}).
		Where(applications).
		Where(notClaimedBy(tableSubmissions)).
		Where(notClaimedBy(tablePollResponses)).
		OrderBy("m.date DESC", "m.id DESC")

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	return query
}

// notClaimedBy excludes messages referenced by an error-free row of table.
func notClaimedBy(table string) sq.Sqlizer {
	return sq.Expr(
		"NOT EXISTS (SELECT 1 FROM "+table+" h WHERE h.message_id = m.id AND h.has_errors = ?)",
		false,
	)
}
