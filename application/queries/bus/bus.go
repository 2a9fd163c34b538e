// Package bus routes read-only lineage queries to their handlers.
package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	pkgerrors "lineage/pkg/errors"
)

// Query is a validated, read-only request
type Query interface {
	Validate() error
}

// QueryHandler answers one query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryHandlerFunc lets a plain function serve as a QueryHandler
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// QueryBus dispatches queries by their concrete type
type QueryBus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type]QueryHandler
}

func NewQueryBus() *QueryBus {
	return &QueryBus{handlers: make(map[reflect.Type]QueryHandler)}
}

// Register binds handler to the type of prototype. The first middleware is
// the outermost. Registering a type twice is an error.
func (b *QueryBus) Register(prototype Query, handler QueryHandler, middlewares ...Middleware) error {
	t := reflect.TypeOf(prototype)

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}
	b.handlers[t] = chain(handler, middlewares)
	return nil
}

// Ask validates query and runs its handler. Validation failures become
// VALIDATION errors; handler errors keep their AppError type.
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()
	if !exists {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("no handler registered for query type %T", query))
	}

	result, err := handler.Handle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", queryName(query), err)
	}
	return result, nil
}

func queryName(query Query) string {
	return reflect.TypeOf(query).Name()
}
