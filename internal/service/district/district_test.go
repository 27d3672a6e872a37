package district

import (
	"context"
	"errors"
	"testing"

	"github.com/adrg/strutil/metrics"
	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/pkg/constants"
	"github.com/ougirez/xformreports/internal/service/poll"
)

type stubCatalog struct {
	locations []*domain.Location
	err       error
	asked     string
}

func (s *stubCatalog) ListLocationsByType(_ context.Context, locationType string) ([]*domain.Location, error) {
	s.asked = locationType
	return s.locations, s.err
}

func newCatalog() *stubCatalog {
	return &stubCatalog{locations: []*domain.Location{
		{ID: 1, Name: "Gulu", Type: "district"},
		{ID: 2, Name: "Kabale", Type: "district"},
		{ID: 3, Name: "Kampala", Type: "district"},
		{ID: 4, Name: "Mbarara", Type: "district"},
	}}
}

func TestMatchDistrict(t *testing.T) {
	catalog := newCatalog()
	m := NewMatcher(catalog, DefaultCutoff)
	ctx := context.Background()

	tests := []struct {
		text string
		want int64
	}{
		{"kampla", 3},
		{"Kampala", 3},
		{"  GULU district", 1},
		{"mbarara, near the school", 4},
	}
	for _, tt := range tests {
		loc, err := m.MatchDistrict(ctx, tt.text)
		if err != nil {
			t.Fatalf("%q: %v", tt.text, err)
		}
		if loc.ID != tt.want {
			t.Fatalf("%q: expected location %d, got %d (%s)", tt.text, tt.want, loc.ID, loc.Name)
		}
	}
	if catalog.asked != constants.LocationTypeDistrict {
		t.Fatalf("expected district lookup, got %q", catalog.asked)
	}

	for _, text := range []string{"zzz-nonexistent", "", "1234"} {
		if _, err := m.MatchDistrict(ctx, text); !errors.Is(err, constants.ErrDistrictNotRecognized) {
			t.Fatalf("%q: expected ErrDistrictNotRecognized, got %v", text, err)
		}
	}
}

func TestMatchDistrictPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection refused")
	m := NewMatcher(&stubCatalog{err: boom}, DefaultCutoff)

	_, err := m.MatchDistrict(context.Background(), "kampala")
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestClosestMatchPrefersFirstOnTies(t *testing.T) {
	idx, ok := ClosestMatch("abc", []string{"abd", "abe"}, 0.5, metrics.NewLevenshtein())
	if !ok || idx != 0 {
		t.Fatalf("expected first candidate, got %d (%v)", idx, ok)
	}
}

func TestAnswerTypeRegistration(t *testing.T) {
	r := poll.NewRegistry()
	if err := r.Register(AnswerType(NewMatcher(newCatalog(), DefaultCutoff))); err != nil {
		t.Fatalf("register: %v", err)
	}

	at, ok := r.Lookup(constants.AnswerTypeDistrict)
	if !ok {
		t.Fatalf("district answer type not registered")
	}
	if at.DBType != poll.DBTypeObject || len(at.ReportColumns) != 3 {
		t.Fatalf("unexpected answer type %+v", at)
	}

	value, err := r.Parse(context.Background(), constants.AnswerTypeDistrict, "gulu")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if loc, ok := value.(*domain.Location); !ok || loc.Name != "Gulu" {
		t.Fatalf("expected Gulu location, got %#v", value)
	}
}
