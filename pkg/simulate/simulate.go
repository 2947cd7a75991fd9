// Package simulate models the latency and transient failures of a remote
// backend so the journal services behave like network calls.
package simulate

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/unowned-ai/eunoia/pkg/metrics"
)

// ErrNetwork is returned when a simulated request loses its draw.
var ErrNetwork = errors.New("simulated network error, please try again")

// DefaultSuccessRate is the probability that a simulated request succeeds.
const DefaultSuccessRate = 0.95

// Band selects one of the latency ranges.
type Band int

const (
	Short Band = iota
	Medium
	Long
)

func (b Band) String() string {
	switch b {
	case Short:
		return "short"
	case Medium:
		return "medium"
	case Long:
		return "long"
	default:
		return "unknown"
	}
}

// Range is an inclusive millisecond interval.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// DefaultBands are the latency ranges used when none are configured.
var DefaultBands = map[Band]Range{
	Short:  {Min: 100 * time.Millisecond, Max: 300 * time.Millisecond},
	Medium: {Min: 300 * time.Millisecond, Max: 800 * time.Millisecond},
	Long:   {Min: 800 * time.Millisecond, Max: 2000 * time.Millisecond},
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Model draws delays and outcomes for simulated requests. A nil *Model
// succeeds immediately.
type Model struct {
	successRate float64
	bands       map[Band]Range
	sleep       Sleeper

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures a Model.
type Option func(*Model)

// WithSuccessRate sets the success probability, clamped into [0, 1].
func WithSuccessRate(p float64) Option {
	return func(m *Model) {
		switch {
		case p < 0:
			p = 0
		case p > 1:
			p = 1
		}
		m.successRate = p
	}
}

// WithBand overrides the range of a single band.
func WithBand(b Band, r Range) Option {
	return func(m *Model) { m.bands[b] = r }
}

// WithRand injects the random source. Use a seeded source for reproducible runs.
func WithRand(rnd *rand.Rand) Option {
	return func(m *Model) { m.rnd = rnd }
}

// WithSleeper replaces the wall-clock wait.
func WithSleeper(s Sleeper) Option {
	return func(m *Model) { m.sleep = s }
}

// NoDelay skips waiting entirely; useful in tests.
func NoDelay() Option {
	return WithSleeper(func(ctx context.Context, _ time.Duration) error { return ctx.Err() })
}

// New returns a Model with the default success rate and bands.
func New(opts ...Option) *Model {
	m := &Model{
		successRate: DefaultSuccessRate,
		bands:       make(map[Band]Range, len(DefaultBands)),
		sleep:       sleepContext,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for b, r := range DefaultBands {
		m.bands[b] = r
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SuccessRate reports the configured success probability.
func (m *Model) SuccessRate() float64 {
	if m == nil {
		return 1
	}
	return m.successRate
}

// Delay draws a delay for band b. The result is never negative.
func (m *Model) Delay(b Band) time.Duration {
	if m == nil {
		return 0
	}
	r, ok := m.bands[b]
	if !ok {
		r = DefaultBands[Medium]
	}
	lo, hi := r.Min, r.Max
	if hi < lo {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		hi = lo
	}
	loMs, hiMs := lo.Milliseconds(), hi.Milliseconds()

	m.mu.Lock()
	ms := loMs + m.rnd.Int63n(hiMs-loMs+1)
	m.mu.Unlock()
	return time.Duration(ms) * time.Millisecond
}

// Succeeds draws a single outcome against the success rate.
func (m *Model) Succeeds() bool {
	if m == nil {
		return true
	}
	m.mu.Lock()
	u := m.rnd.Float64()
	m.mu.Unlock()
	return u < m.successRate
}

// Request waits for a delay drawn from band b and then decides the outcome.
// It returns ctx.Err() if the context ends first and ErrNetwork when the
// draw fails.
func (m *Model) Request(ctx context.Context, b Band) error {
	if m == nil {
		return ctx.Err()
	}
	d := m.Delay(b)
	if err := m.sleep(ctx, d); err != nil {
		return err
	}
	ok := m.Succeeds()
	metrics.RecordSimulatedRequest(b.String(), d, ok)
	if !ok {
		return ErrNetwork
	}
	return nil
}

// Run performs a simulated request and hands back payload on success.
func Run[T any](ctx context.Context, m *Model, b Band, payload T) (T, error) {
	if err := m.Request(ctx, b); err != nil {
		var zero T
		return zero, err
	}
	return payload, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
