// Package poll keeps the custom answer types polls can be created with.
package poll

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ougirez/xformreports/internal/pkg/constants"
)

// Storage kinds of a parsed answer.
const (
	DBTypeText   = "text"
	DBTypeInt    = "int"
	DBTypeObject = "object"
)

// Parser validates a raw SMS answer and returns the value to store.
type Parser func(ctx context.Context, value string) (any, error)

type ReportColumn struct {
	Title string `json:"title"`
	Field string `json:"field"`
}

type AnswerType struct {
	Name          string         `json:"name"`
	Label         string         `json:"label"`
	Parse         Parser         `json:"-"`
	DBType        string         `json:"db_type"`
	ViewTemplate  string         `json:"view_template,omitempty"`
	EditTemplate  string         `json:"edit_template,omitempty"`
	ReportColumns []ReportColumn `json:"report_columns,omitempty"`
	EditForm      string         `json:"edit_form,omitempty"`
}

type Registry struct {
	types   map[string]AnswerType
	order   []string
	typesMx sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]AnswerType)}
}

func (r *Registry) Register(t AnswerType) error {
	if t.Name == "" {
		return errors.New("answer type name is required")
	}
	if t.Parse == nil {
		return fmt.Errorf("answer type %q has no parser", t.Name)
	}

	r.typesMx.Lock()
	defer r.typesMx.Unlock()

	if _, ok := r.types[t.Name]; ok {
		return fmt.Errorf("answer type %q is already registered", t.Name)
	}
	r.types[t.Name] = t
	r.order = append(r.order, t.Name)

	return nil
}

func (r *Registry) Lookup(name string) (AnswerType, bool) {
	r.typesMx.RLock()
	defer r.typesMx.RUnlock()

	t, ok := r.types[name]
	return t, ok
}

// Types returns the registered answer types in registration order.
func (r *Registry) Types() []AnswerType {
	r.typesMx.RLock()
	defer r.typesMx.RUnlock()

	types := make([]AnswerType, 0, len(r.order))
	for _, name := range r.order {
		types = append(types, r.types[name])
	}
	return types
}

func (r *Registry) Parse(ctx context.Context, name, value string) (any, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", constants.ErrUnknownAnswerType, name)
	}
	return t.Parse(ctx, value)
}
