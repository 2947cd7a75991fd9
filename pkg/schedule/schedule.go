// Package schedule fires enabled reminders on their cron schedules.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/unowned-ai/eunoia/pkg/journal"
)

// Notifier delivers a due reminder.
type Notifier interface {
	Notify(ctx context.Context, r journal.Reminder) error
}

// LogNotifier writes due reminders to the log.
type LogNotifier struct {
	Log logrus.FieldLogger
}

func (n LogNotifier) Notify(_ context.Context, r journal.Reminder) error {
	n.Log.WithFields(logrus.Fields{"reminder": r.ID, "user": r.UserID}).Info(r.Message)
	return nil
}

// Scheduler keeps one cron entry per enabled reminder.
type Scheduler struct {
	reminders journal.ReminderRepository
	notifier  Notifier
	log       logrus.FieldLogger
	cron      *cron.Cron

	mu      sync.Mutex
	entries map[uuid.UUID]cron.EntryID
}

func New(reminders journal.ReminderRepository, notifier Notifier, log logrus.FieldLogger, opts ...cron.Option) *Scheduler {
	return &Scheduler{
		reminders: reminders,
		notifier:  notifier,
		log:       log,
		cron:      cron.New(opts...),
		entries:   make(map[uuid.UUID]cron.EntryID),
	}
}

// Sync replaces the scheduled set with the enabled reminders of every user
// and returns how many are scheduled.
func (s *Scheduler) Sync(ctx context.Context) (int, error) {
	list, err := s.reminders.ListReminders(ctx, uuid.Nil)
	if err != nil {
		return 0, fmt.Errorf("list reminders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.entries {
		s.cron.Remove(entry)
		delete(s.entries, id)
	}
	for _, r := range list {
		if !r.Enabled {
			continue
		}
		sched, err := journal.Schedule(r)
		if err != nil {
			s.log.WithError(err).WithField("reminder", r.ID).Warn("skipping unschedulable reminder")
			continue
		}
		r := r
		s.entries[r.ID] = s.cron.Schedule(sched, cron.FuncJob(func() { s.fire(r) }))
	}
	return len(s.entries), nil
}

// Next reports when a scheduled reminder fires next.
func (s *Scheduler) Next(id uuid.UUID) (time.Time, bool) {
	s.mu.Lock()
	entryID, ok := s.entries[id]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(entryID).Schedule.Next(time.Now()), true
}

// Run schedules reminders, resyncs every interval and stops when ctx is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	n, err := s.Sync(ctx)
	if err != nil {
		return err
	}
	s.log.WithField("reminders", n).Info("reminder scheduler started")
	s.cron.Start()
	defer func() {
		<-s.cron.Stop().Done()
		s.log.Info("reminder scheduler stopped")
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Sync(ctx); err != nil {
				s.log.WithError(err).Warn("reminder resync failed")
			}
		}
	}
}

func (s *Scheduler) fire(r journal.Reminder) {
	if err := s.notifier.Notify(context.Background(), r); err != nil {
		s.log.WithError(err).WithField("reminder", r.ID).Warn("reminder delivery failed")
	}
}
