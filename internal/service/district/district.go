// Package district recognizes district names typed by SMS reporters.
package district

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/pkg/constants"
	"github.com/ougirez/xformreports/internal/pkg/logger"
	promMetrics "github.com/ougirez/xformreports/internal/pkg/metrics"
	"github.com/ougirez/xformreports/internal/service/poll"
)

const DefaultCutoff = 0.6

// leadingWord captures the alphabetic word an answer starts with.
var leadingWord = regexp.MustCompile(`^\s*([a-zA-Z]*)(\s|[^a-zA-Z]|$)`)

type Catalog interface {
	ListLocationsByType(ctx context.Context, locationType string) ([]*domain.Location, error)
}

type Matcher struct {
	catalog Catalog
	cutoff  float64
	metric  strutil.StringMetric
}

func NewMatcher(catalog Catalog, cutoff float64) *Matcher {
	return &Matcher{
		catalog: catalog,
		cutoff:  cutoff,
		metric:  metrics.NewLevenshtein(),
	}
}

// MatchDistrict returns the district closest to the first word of text, or
// ErrDistrictNotRecognized when no district is similar enough.
func (m *Matcher) MatchDistrict(ctx context.Context, text string) (*domain.Location, error) {
	districts, err := m.catalog.ListLocationsByType(ctx, constants.LocationTypeDistrict)
	if err != nil {
		return nil, fmt.Errorf("ListLocationsByType: %w", err)
	}

	names := make([]string, 0, len(districts))
	for _, d := range districts {
		names = append(names, d.Name)
	}

	idx, ok := ClosestMatch(text, names, m.cutoff, m.metric)
	if !ok {
		logger.Debugf(ctx, "district not recognized: %q", text)
		promMetrics.DistrictMatchesTotal.WithLabelValues("miss").Inc()
		return nil, constants.ErrDistrictNotRecognized
	}

	promMetrics.DistrictMatchesTotal.WithLabelValues("hit").Inc()
	return districts[idx], nil
}

// ClosestMatch compares the leading word of value with every candidate,
// ignoring case, and returns the index of the most similar one. The first
// candidate wins ties; no candidate below cutoff is returned.
func ClosestMatch(value string, candidates []string, cutoff float64, metric strutil.StringMetric) (int, bool) {
	m := leadingWord.FindStringSubmatch(value)
	if m == nil || m[1] == "" {
		return -1, false
	}
	word := strings.ToLower(m[1])

	best, bestScore := -1, cutoff
	for i, c := range candidates {
		score := strutil.Similarity(word, strings.ToLower(c), metric)
		if score > bestScore || (best == -1 && score == bestScore) {
			best, bestScore = i, score
		}
	}

	return best, best != -1
}

// AnswerType is the "district" poll answer: the reply must name a known
// district and is stored as a reference to its location.
func AnswerType(m *Matcher) poll.AnswerType {
	return poll.AnswerType{
		Name:  constants.AnswerTypeDistrict,
		Label: "District Response",
		Parse: func(ctx context.Context, value string) (any, error) {
			return m.MatchDistrict(ctx, value)
		},
		DBType:       poll.DBTypeObject,
		ViewTemplate: "polls/response_location_view.html",
		EditTemplate: "polls/response_location_edit.html",
		ReportColumns: []poll.ReportColumn{
			{Title: "Text", Field: "text"},
			{Title: "Location", Field: "location"},
			{Title: "Categories", Field: "categories"},
		},
		EditForm: "LocationResponseForm",
	}
}
