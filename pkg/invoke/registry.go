// Package invoke calls domain operations by name and tracks the state of the
// latest call for UI-style consumers.
package invoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/unowned-ai/eunoia/pkg/metrics"
)

var (
	ErrUnknownMethod = errors.New("unknown service method")
	ErrBadArgument   = errors.New("bad argument")
)

// Handler runs one operation with positional arguments.
type Handler func(ctx context.Context, args []any) (any, error)

// Registry maps "service.method" names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Name joins a service and method into a registry key.
func Name(service, method string) string {
	return service + "." + method
}

// Register adds or replaces the handler for service.method.
func (r *Registry) Register(service, method string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[Name(service, method)] = h
}

func (r *Registry) Lookup(service, method string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[Name(service, method)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, Name(service, method))
	}
	return h, nil
}

// Methods lists every registered name, sorted.
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Call runs service.method once, outside of any Invocation.
func (r *Registry) Call(ctx context.Context, service, method string, args ...any) (any, error) {
	h, err := r.Lookup(service, method)
	if err != nil {
		return nil, err
	}
	out, err := h(ctx, args)
	metrics.RecordInvocation(Name(service, method), err == nil)
	return out, err
}

// Arg decodes the i-th argument into T. Values already of type T are used as
// is; anything else (json.RawMessage, []byte, maps from decoded JSON) goes
// through a JSON round trip.
func Arg[T any](args []any, i int) (T, error) {
	var zero T
	if i >= len(args) {
		return zero, fmt.Errorf("%w: missing argument %d", ErrBadArgument, i)
	}
	return decode[T](args[i], i)
}

// OptArg is Arg for trailing arguments that may be omitted or null.
func OptArg[T any](args []any, i int) (T, error) {
	var zero T
	if i >= len(args) || args[i] == nil {
		return zero, nil
	}
	return decode[T](args[i], i)
}

func decode[T any](v any, i int) (T, error) {
	var out T
	if typed, ok := v.(T); ok {
		return typed, nil
	}

	var raw []byte
	switch x := v.(type) {
	case json.RawMessage:
		raw = x
	case []byte:
		raw = x
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return out, fmt.Errorf("%w: argument %d: %v", ErrBadArgument, i, err)
		}
		raw = b
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: argument %d: %v", ErrBadArgument, i, err)
	}
	return out, nil
}
