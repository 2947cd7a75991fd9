package schedule

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/eunoia/pkg/journal"
	"github.com/unowned-ai/eunoia/pkg/storage/memory"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []journal.Reminder
}

func (c *captureNotifier) Notify(_ context.Context, r journal.Reminder) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, r)
	return nil
}

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func insertReminder(t *testing.T, store *memory.Store, clock string, enabled bool) journal.Reminder {
	t.Helper()
	r := journal.Reminder{
		ID: uuid.New(), UserID: uuid.New(), Time: clock, Days: []string{journal.Everyday},
		Message: "write", Enabled: enabled, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, store.InsertReminder(context.Background(), r))
	return r
}

func TestSyncSchedulesOnlyEnabledReminders(t *testing.T) {
	store := memory.New()
	on := insertReminder(t, store, "08:00", true)
	off := insertReminder(t, store, "09:00", false)

	s := New(store, &captureNotifier{}, quiet())
	n, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	next, ok := s.Next(on.ID)
	require.True(t, ok)
	assert.Equal(t, 8, next.Hour())
	assert.Zero(t, next.Minute())

	_, ok = s.Next(off.ID)
	assert.False(t, ok)

	off.Enabled = true
	require.NoError(t, store.UpdateReminder(context.Background(), off))
	n, err = s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFireDeliversReminder(t *testing.T) {
	store := memory.New()
	r := insertReminder(t, store, "08:00", true)
	notifier := &captureNotifier{}

	s := New(store, notifier, quiet())
	s.fire(r)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, r.ID, notifier.sent[0].ID)
}

func TestRunStopsWithContext(t *testing.T) {
	s := New(memory.New(), LogNotifier{Log: quiet()}, quiet())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Hour) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
