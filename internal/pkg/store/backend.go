package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/xformreports/internal/domain"
)

var backendColumns = []string{"id", "name"}

func (s *store) GetOrCreateBackend(ctx context.Context, name string) (*domain.Backend, error) {
	query := builder().Insert(tableBackends).
		Columns("name").
		Values(name).
		Suffix(`on conflict (name) do nothing`)

	if _, err := s.pool.Execx(ctx, query); err != nil {
		return nil, err
	}

	selectQuery := builder().Select(backendColumns...).
		From(tableBackends).
		Where(sq.Eq{"name": name})

	var selected domain.Backend
	if err := s.pool.Getx(ctx, &selected, selectQuery); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}
