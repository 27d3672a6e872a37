package poll

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ougirez/xformreports/internal/pkg/constants"
)

func upper(_ context.Context, value string) (any, error) {
	return strings.ToUpper(value), nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(AnswerType{Name: "shout", Label: "Shouted Response", Parse: upper, DBType: DBTypeText}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(AnswerType{Name: "shout", Parse: upper}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := r.Register(AnswerType{Name: "mute"}); err == nil {
		t.Fatalf("expected missing parser error")
	}

	got, err := r.Parse(context.Background(), "shout", "yes")
	if err != nil || got != "YES" {
		t.Fatalf("expected YES, got %v (%v)", got, err)
	}

	if _, err := r.Parse(context.Background(), "whisper", "yes"); !errors.Is(err, constants.ErrUnknownAnswerType) {
		t.Fatalf("expected ErrUnknownAnswerType, got %v", err)
	}

	if types := r.Types(); len(types) != 1 || types[0].Label != "Shouted Response" {
		t.Fatalf("unexpected types %+v", types)
	}
}
