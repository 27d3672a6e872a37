package store

import (
	"context"

	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	GetLocation(ctx context.Context, id int64) (*domain.Location, error)
	ListLocationsByType(ctx context.Context, locationType string) ([]*domain.Location, error)
	ListChildLocationIDs(ctx context.Context, parentID int64) ([]int64, error)
	SearchLocations(ctx context.Context, opts SearchLocationsOpts) ([]*domain.Location, error)

	SubmissionCounts(ctx context.Context, opts SubmissionCountsOpts) ([]*domain.AggregateRow, error)
	AttributeSums(ctx context.Context, opts AttributeSumsOpts) ([]*domain.AggregateRow, error)
	SubmissionBounds(ctx context.Context) (*domain.SubmissionBounds, error)

	UnhandledIncomingMessages(ctx context.Context, opts UnhandledMessagesOpts) ([]*domain.Message, error)

	GetOrCreateBackend(ctx context.Context, name string) (*domain.Backend, error)
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}
