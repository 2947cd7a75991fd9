package journal_test

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/unowned-ai/eunoia/pkg/journal"
	"github.com/unowned-ai/eunoia/pkg/simulate"
	"github.com/unowned-ai/eunoia/pkg/storage/memory"
)

// 2025-06-15 is a Sunday.
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fixture struct {
	svc   *journal.Services
	store *memory.Store
	clock *fakeClock
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newFixture(t *testing.T, sim journal.Simulator, opts ...journal.Option) *fixture {
	t.Helper()
	store := memory.New()
	clock := &fakeClock{t: testNow}
	base := []journal.Option{
		journal.WithClock(clock.Now),
		journal.WithRand(rand.New(rand.NewSource(1))),
		journal.WithLogger(quietLogger()),
		journal.WithBcryptCost(bcrypt.MinCost),
		journal.WithTokenSecret([]byte("test-secret")),
	}
	return &fixture{
		svc:   journal.NewServices(store, sim, append(base, opts...)...),
		store: store,
		clock: clock,
	}
}

// failing never lets a simulated request through.
func failing() *simulate.Model {
	return simulate.New(simulate.WithSuccessRate(0), simulate.NoDelay())
}

// seedEntry inserts an entry directly into the store, bypassing the service.
func (f *fixture) seedEntry(t *testing.T, title, content string, sentiment float64, daysAgo int, tags ...string) journal.Entry {
	t.Helper()
	at := testNow.AddDate(0, 0, -daysAgo)
	e := journal.Entry{
		ID:          uuid.New(),
		Title:       title,
		Content:     content,
		ContentType: journal.DefaultContentType,
		Tags:        tags,
		Topics:      []string{},
		Sentiment:   sentiment,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	require.NoError(t, f.store.InsertEntry(context.Background(), e))
	return e
}
