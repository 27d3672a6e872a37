// Package backend routes phone numbers to the SMS backend serving them.
package backend

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/ougirez/xformreports/internal/config"
	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/pkg/constants"
	"github.com/ougirez/xformreports/internal/pkg/logger"
	"github.com/ougirez/xformreports/internal/pkg/store"
)

type Service struct {
	store       store.Store
	countryCode string
	prefixes    []config.BackendPrefix
}

func NewBackendService(store store.Store, countryCode string, prefixes []config.BackendPrefix) *Service {
	return &Service{store: store, countryCode: countryCode, prefixes: prefixes}
}

// AssignBackend normalizes number and returns it with the backend its
// prefix routes to. The backend is nil when no prefix matches.
func (s *Service) AssignBackend(ctx context.Context, number string) (string, *domain.Backend, error) {
	normalized, err := NormalizeNumber(number, s.countryCode)
	if err != nil {
		return "", nil, err
	}

	name, ok := MatchBackend(normalized, s.countryCode, s.prefixes)
	if !ok {
		logger.Infof(ctx, "no backend prefix matches %s", normalized)
		return normalized, nil, nil
	}

	backend, err := s.store.GetOrCreateBackend(ctx, name)
	if err != nil {
		return "", nil, fmt.Errorf("store.GetOrCreateBackend, name-%s: %w", name, err)
	}

	return normalized, backend, nil
}

// NormalizeNumber rewrites a local number (leading 0) or a bare national
// number into international form without a plus sign.
func NormalizeNumber(number, countryCode string) (string, error) {
	number = strings.TrimPrefix(strings.TrimSpace(number), "+")
	if number == "" {
		return "", fmt.Errorf("%w: empty", constants.ErrInvalidPhoneNumber)
	}
	for _, r := range number {
		if !unicode.IsDigit(r) {
			return "", fmt.Errorf("%w: %q", constants.ErrInvalidPhoneNumber, number)
		}
	}

	switch {
	case strings.HasPrefix(number, "0"):
		return countryCode + number[1:], nil
	case !strings.HasPrefix(number, countryCode):
		return countryCode + number, nil
	default:
		return number, nil
	}
}

// MatchBackend returns the backend of the first prefix the national part of
// number starts with. An empty prefix matches every number.
func MatchBackend(number, countryCode string, prefixes []config.BackendPrefix) (string, bool) {
	national := strings.TrimPrefix(number, countryCode)
	for _, p := range prefixes {
		if strings.HasPrefix(national, p.Prefix) {
			return p.Backend, true
		}
	}
	return "", false
}
