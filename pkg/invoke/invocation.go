package invoke

import (
	"context"
	"sync"

	"github.com/unowned-ai/eunoia/pkg/metrics"
)

// State is a snapshot of an Invocation. Data and Err are never both set.
type State struct {
	Loading bool
	Success bool
	Data    any
	Err     error
}

type call struct {
	done chan struct{}
	data any
	err  error
}

// Invocation wraps one service method and tracks its latest call. Starting a
// new call cancels the one in flight, and only the latest call may write state.
type Invocation struct {
	name     string
	handler  Handler
	base     context.Context
	onChange func(State)

	eager     bool
	eagerArgs []any

	// emit serializes state transitions with their OnChange notifications.
	emit sync.Mutex

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current *call
	state   State
}

type Option func(*Invocation)

// Eager starts a call with args as soon as the invocation is created.
func Eager(args ...any) Option {
	return func(inv *Invocation) {
		inv.eager = true
		inv.eagerArgs = args
	}
}

// OnChange registers fn to receive every state transition. fn runs on the
// goroutine that caused the transition and must not start calls itself.
func OnChange(fn func(State)) Option {
	return func(inv *Invocation) { inv.onChange = fn }
}

// New binds service.method from reg. ctx is the parent of calls started with
// Start, including the eager one.
func New(ctx context.Context, reg *Registry, service, method string, opts ...Option) (*Invocation, error) {
	h, err := reg.Lookup(service, method)
	if err != nil {
		return nil, err
	}
	inv := &Invocation{name: Name(service, method), handler: h, base: ctx}
	for _, opt := range opts {
		opt(inv)
	}
	if inv.eager {
		inv.Start(inv.eagerArgs...)
	}
	return inv, nil
}

// Execute runs a fresh call and waits for its outcome. If a newer call
// supersedes it, Execute returns the cancellation error it observed and the
// invocation state belongs to the newer call.
func (inv *Invocation) Execute(ctx context.Context, args ...any) (any, error) {
	c := inv.launch(ctx, args)
	select {
	case <-c.done:
		return c.data, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Start runs a fresh call in the background.
func (inv *Invocation) Start(args ...any) {
	inv.launch(inv.base, args)
}

// Cancel aborts the call in flight, if any. The call settles with the
// context error.
func (inv *Invocation) Cancel() {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.cancel != nil {
		inv.cancel()
	}
}

// Await blocks until the latest call settles and returns the resulting state.
func (inv *Invocation) Await(ctx context.Context) (State, error) {
	for {
		inv.mu.Lock()
		c := inv.current
		inv.mu.Unlock()
		if c == nil {
			return inv.State(), nil
		}

		select {
		case <-c.done:
		case <-ctx.Done():
			return State{}, ctx.Err()
		}

		inv.mu.Lock()
		latest := inv.current == c
		st := inv.state
		inv.mu.Unlock()
		if latest {
			return st, nil
		}
	}
}

func (inv *Invocation) State() State {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.state
}

func (inv *Invocation) IsLoading() bool { return inv.State().Loading }
func (inv *Invocation) IsSuccess() bool { return inv.State().Success }
func (inv *Invocation) Data() any       { return inv.State().Data }
func (inv *Invocation) Err() error      { return inv.State().Err }

func (inv *Invocation) launch(parent context.Context, args []any) *call {
	ctx, cancel := context.WithCancel(parent)
	c := &call{done: make(chan struct{})}

	var gen uint64
	inv.transition(func(st *State) bool {
		if inv.cancel != nil {
			inv.cancel()
		}
		inv.gen++
		gen = inv.gen
		inv.cancel = cancel
		inv.current = c
		st.Loading = true
		return true
	})

	go func() {
		defer cancel()
		data, err := inv.handler(ctx, args)
		if err != nil {
			data = nil
		}
		c.data, c.err = data, err

		applied := inv.transition(func(st *State) bool {
			if gen != inv.gen {
				return false
			}
			inv.cancel = nil
			*st = State{Success: err == nil, Data: data, Err: err}
			return true
		})
		if applied {
			metrics.RecordInvocation(inv.name, err == nil)
		} else {
			metrics.RecordSupersededInvocation(inv.name)
		}
		close(c.done)
	}()
	return c
}

// transition applies fn to the state under the lock and, when fn reports a
// change, notifies OnChange with the new snapshot.
func (inv *Invocation) transition(fn func(*State) bool) bool {
	inv.emit.Lock()
	defer inv.emit.Unlock()

	inv.mu.Lock()
	changed := fn(&inv.state)
	st := inv.state
	inv.mu.Unlock()

	if changed && inv.onChange != nil {
		inv.onChange(st)
	}
	return changed
}
