package simulate

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(opts ...Option) *Model {
	base := []Option{WithRand(rand.New(rand.NewSource(42))), NoDelay()}
	return New(append(base, opts...)...)
}

func TestRequestSuccessRateBounds(t *testing.T) {
	ctx := context.Background()

	always := seeded(WithSuccessRate(1))
	never := seeded(WithSuccessRate(0))
	for i := 0; i < 500; i++ {
		require.NoError(t, always.Request(ctx, Short))
		require.ErrorIs(t, never.Request(ctx, Short), ErrNetwork)
	}
}

func TestRequestClampsRate(t *testing.T) {
	assert.Equal(t, 1.0, New(WithSuccessRate(3)).SuccessRate())
	assert.Equal(t, 0.0, New(WithSuccessRate(-1)).SuccessRate())
}

func TestFailureFrequencyApproachesRate(t *testing.T) {
	m := seeded(WithSuccessRate(0.95))
	const trials = 20000
	failures := 0
	for i := 0; i < trials; i++ {
		if errors.Is(m.Request(context.Background(), Medium), ErrNetwork) {
			failures++
		}
	}
	got := float64(failures) / trials
	assert.InDelta(t, 0.05, got, 0.01)
}

func TestDelayWithinBand(t *testing.T) {
	m := seeded()
	for b, r := range DefaultBands {
		for i := 0; i < 200; i++ {
			d := m.Delay(b)
			assert.GreaterOrEqual(t, d, r.Min, "band %s", b)
			assert.LessOrEqual(t, d, r.Max, "band %s", b)
		}
	}
}

func TestDelayNeverNegative(t *testing.T) {
	m := seeded(
		WithBand(Short, Range{Min: -50 * time.Millisecond, Max: -10 * time.Millisecond}),
		WithBand(Long, Range{Min: 900 * time.Millisecond, Max: 100 * time.Millisecond}),
	)
	for i := 0; i < 100; i++ {
		assert.GreaterOrEqual(t, m.Delay(Short), time.Duration(0))
		d := m.Delay(Long)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 900*time.Millisecond)
	}
}

func TestRequestHonoursCancellation(t *testing.T) {
	m := New(WithSuccessRate(1), WithBand(Long, Range{Min: time.Hour, Max: time.Hour}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Request(ctx, Long), context.Canceled)
}

func TestSleeperReceivesDrawnDelay(t *testing.T) {
	var waited time.Duration
	m := New(
		WithRand(rand.New(rand.NewSource(7))),
		WithSuccessRate(1),
		WithBand(Medium, Range{Min: 500 * time.Millisecond, Max: 500 * time.Millisecond}),
		WithSleeper(func(_ context.Context, d time.Duration) error {
			waited = d
			return nil
		}),
	)
	require.NoError(t, m.Request(context.Background(), Medium))
	assert.Equal(t, 500*time.Millisecond, waited)
}

func TestRunReturnsPayload(t *testing.T) {
	got, err := Run(context.Background(), seeded(WithSuccessRate(1)), Short, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	_, err = Run(context.Background(), seeded(WithSuccessRate(0)), Short, 1)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestNilModelAlwaysSucceeds(t *testing.T) {
	var m *Model
	assert.NoError(t, m.Request(context.Background(), Long))
	assert.Zero(t, m.Delay(Long))
}
