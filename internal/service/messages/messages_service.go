package messages

import (
	"context"
	"fmt"

	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/pkg/store"
)

const DefaultLimit = 100

type Service struct {
	store        store.Store
	applications []string
}

func NewMessagesService(store store.Store, applications []string) *Service {
	return &Service{store: store, applications: applications}
}

// UnhandledIncoming lists incoming messages that were neither accepted as a
// form submission nor as a poll response, newest first.
func (s *Service) UnhandledIncoming(ctx context.Context, limit, offset uint64) ([]*domain.Message, error) {
	if limit == 0 {
		limit = DefaultLimit
	}

	messages, err := s.store.UnhandledIncomingMessages(ctx, store.UnhandledMessagesOpts{
		Applications: s.applications,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, fmt.Errorf("store.UnhandledIncomingMessages: %w", err)
	}

	return messages, nil
}
