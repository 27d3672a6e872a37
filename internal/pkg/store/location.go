package store

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/pkg/logger"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

var locationColumns = []string{"id", "name", "type_id", "parent_id", "tree_id", "lft", "rght"}

type SearchLocationsOpts struct {
	NameContains string
	Type         *string
	Limit        uint64
}

func (s *store) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	query := builder().Select(locationColumns...).
		From(tableLocations).
		Where(sq.Eq{"id": id})

	var selected domain.Location
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

func (s *store) ListLocationsByType(ctx context.Context, locationType string) ([]*domain.Location, error) {
	query := builder().Select(locationColumns...).
		From(tableLocations).
		Where(sq.Eq{"type_id": locationType}).
		OrderBy("name")

	var selected []*domain.Location
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		logger.Error(ctx, err.Error())
		return nil, err
	}

	return selected, nil
}

func (s *store) ListChildLocationIDs(ctx context.Context, parentID int64) ([]int64, error) {
	query := builder().Select("id").
		From(tableLocations).
		Where(sq.Eq{"parent_id": parentID}).
		OrderBy("id")

	var ids []int64
	if err := s.pool.Selectx(ctx, &ids, query); err != nil {
		logger.Error(ctx, err.Error())
		return nil, err
	}

	return ids, nil
}

func (s *store) SearchLocations(ctx context.Context, opts SearchLocationsOpts) ([]*domain.Location, error) {
	query := searchLocationsQuery(opts)

	var selected []*domain.Location
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		logger.Error(ctx, err.Error())
		return nil, err
	}

	return selected, nil
}

func searchLocationsQuery(opts SearchLocationsOpts) sq.SelectBuilder {
	query := builder().Select(locationColumns...).
		From(tableLocations).
		Where(sq.ILike{"name": "%" + likeEscaper.Replace(opts.NameContains) + "%"}).
		OrderBy("name")

	if opts.Type != nil {
		query = query.Where(sq.Eq{"type_id": *opts.Type})
	}

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	return query
}
