package compat

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	pkgerrors "github.com/deckhaven/arenalink/pkg/errors"
)

// Handler is one REST-backed remote operation. Handlers receive the caller's
// context and the call arguments verbatim.
type Handler func(ctx context.Context, args ...any) (any, error)

// Table maps operation names to handlers. Building the table explicitly at
// startup keeps the set of valid names enumerable and testable, instead of
// intercepting arbitrary property access at runtime.
type Table map[string]Handler

// Invoker is the remote-procedure-by-name facade. Any name can be called;
// unknown names fail with an error naming the method rather than silently
// returning nothing, and calls before Configure fail with an explicit
// not-initialized error.
type Invoker struct {
	mu     sync.RWMutex
	table  Table
	logger *zerolog.Logger
}

// NewInvoker creates an unconfigured invoker. Every call fails until
// Configure installs a handler table.
func NewInvoker(logger *zerolog.Logger) *Invoker {
	return &Invoker{logger: logger}
}

// Configure installs the handler table, replacing any previous one.
func (i *Invoker) Configure(table Table) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.table = table
}

// Register adds or replaces a single named handler, creating the table if
// none was configured yet.
func (i *Invoker) Register(method string, h Handler) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.table == nil {
		i.table = make(Table)
	}
	i.table[method] = h
}

// Call invokes the named operation with the supplied arguments and forwards
// its result. With no table configured every call fails with a
// not-initialized error naming the method; with a table that lacks the name
// the call fails with a method-not-available error.
func (i *Invoker) Call(ctx context.Context, method string, args ...any) (any, error) {
	i.mu.RLock()
	table := i.table
	h, ok := table[method]
	i.mu.RUnlock()

	if len(table) == 0 {
		i.logger.Warn().Str("method", method).Msg("Remote call before handler table was configured")
		return nil, pkgerrors.NewNotInitializedError(method)
	}
	if !ok {
		i.logger.Warn().Str("method", method).Msg("Remote call to unregistered method")
		return nil, pkgerrors.NewMethodNotAvailableError(method)
	}

	return h(ctx, args...)
}

// Methods returns the sorted names of all registered operations.
func (i *Invoker) Methods() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.table) == 0 {
		return nil
	}
	methods := make([]string, 0, len(i.table))
	for name := range i.table {
		methods = append(methods, name)
	}
	sort.Strings(methods)
	return methods
}

// Reset drops the handler table, returning the invoker to its unconfigured
// state. Used for test isolation.
func (i *Invoker) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.table = nil
}
