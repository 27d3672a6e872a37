package location

import (
	"context"
	"errors"
	"testing"

	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/pkg/constants"
	"github.com/ougirez/xformreports/internal/pkg/store"
)

type stubStore struct {
	store.Store
	locations []*domain.Location
	lastOpts  store.SearchLocationsOpts
}

func (s *stubStore) SearchLocations(_ context.Context, opts store.SearchLocationsOpts) ([]*domain.Location, error) {
	s.lastOpts = opts
	return s.locations, nil
}

func TestLocationForUser(t *testing.T) {
	stub := &stubStore{locations: []*domain.Location{{ID: 7, Name: "Gulu"}}}
	svc := NewLocationService(stub)

	loc, err := svc.LocationForUser(context.Background(), "gulu")
	if err != nil {
		t.Fatalf("LocationForUser: %v", err)
	}
	if loc.ID != 7 {
		t.Fatalf("unexpected location %+v", loc)
	}
	if stub.lastOpts.Type == nil || *stub.lastOpts.Type != constants.LocationTypeDistrict {
		t.Fatalf("expected district type filter, got %+v", stub.lastOpts)
	}
	if stub.lastOpts.NameContains != "gulu" {
		t.Fatalf("unexpected name filter %q", stub.lastOpts.NameContains)
	}
}

func TestLocationForUserAmbiguous(t *testing.T) {
	for _, locations := range [][]*domain.Location{
		nil,
		{{ID: 1, Name: "Kampala"}, {ID: 2, Name: "Kampala North"}},
	} {
		svc := NewLocationService(&stubStore{locations: locations})
		if _, err := svc.LocationForUser(context.Background(), "kampala"); !errors.Is(err, constants.ErrDBNotFound) {
			t.Fatalf("expected ErrDBNotFound for %d matches, got %v", len(locations), err)
		}
	}
}

func TestLocationForUserEmpty(t *testing.T) {
	svc := NewLocationService(&stubStore{})
	if _, err := svc.LocationForUser(context.Background(), ""); !errors.Is(err, constants.ErrDBNotFound) {
		t.Fatalf("expected ErrDBNotFound, got %v", err)
	}
}
