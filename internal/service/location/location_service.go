package location

import (
	"context"
	"fmt"

	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/pkg/constants"
	"github.com/ougirez/xformreports/internal/pkg/store"
)

type Service struct {
	store store.Store
}

func NewLocationService(store store.Store) *Service {
	return &Service{store}
}

func (s *Service) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	loc, err := s.store.GetLocation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.GetLocation, id-%d: %w", id, err)
	}
	return loc, nil
}

// LocationForUser returns the district whose name contains username. It
// returns ErrDBNotFound unless exactly one district matches.
func (s *Service) LocationForUser(ctx context.Context, username string) (*domain.Location, error) {
	if username == "" {
		return nil, constants.ErrDBNotFound
	}

	district := constants.LocationTypeDistrict
	locations, err := s.store.SearchLocations(ctx, store.SearchLocationsOpts{
		NameContains: username,
		Type:         &district,
		Limit:        2,
	})
	if err != nil {
		return nil, fmt.Errorf("store.SearchLocations: %w", err)
	}

	if len(locations) != 1 {
		return nil, fmt.Errorf("%w: %d districts match %q", constants.ErrDBNotFound, len(locations), username)
	}

	return locations[0], nil
}
