package messages

import (
	"context"
	"testing"

	"github.com/ougirez/xformreports/internal/domain"
	"github.com/ougirez/xformreports/internal/pkg/store"
)

type stubStore struct {
	store.Store
	opts store.UnhandledMessagesOpts
}

func (s *stubStore) UnhandledIncomingMessages(_ context.Context, opts store.UnhandledMessagesOpts) ([]*domain.Message, error) {
	s.opts = opts
	return []*domain.Message{{ID: 1, Text: "hello", Direction: domain.DirectionIncoming}}, nil
}

func TestUnhandledIncoming(t *testing.T) {
	stub := &stubStore{}
	svc := NewMessagesService(stub, []string{"rapidsms_xforms", "poll"})

	messages, err := svc.UnhandledIncoming(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("UnhandledIncoming: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if stub.opts.Limit != DefaultLimit || stub.opts.Offset != 20 {
		t.Fatalf("unexpected paging %+v", stub.opts)
	}
	if len(stub.opts.Applications) != 2 {
		t.Fatalf("applications not forwarded: %v", stub.opts.Applications)
	}
}
