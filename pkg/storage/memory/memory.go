// Package memory implements the journal repositories in process memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/unowned-ai/eunoia/pkg/journal"
)

// Store is an in-memory journal.Store. It is safe for concurrent use and is
// mostly meant for tests and throwaway demo sessions.
type Store struct {
	mu          sync.RWMutex
	entries     map[uuid.UUID]journal.Entry
	tags        map[string]struct{}
	users       map[uuid.UUID]journal.User
	emails      map[string]uuid.UUID
	reminders   map[uuid.UUID]journal.Reminder
	preferences map[uuid.UUID]journal.Preferences
}

var _ journal.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		entries:     make(map[uuid.UUID]journal.Entry),
		tags:        make(map[string]struct{}),
		users:       make(map[uuid.UUID]journal.User),
		emails:      make(map[string]uuid.UUID),
		reminders:   make(map[uuid.UUID]journal.Reminder),
		preferences: make(map[uuid.UUID]journal.Preferences),
	}
}

// Entries --------------------------------------------------------------------

func (s *Store) ListEntries(_ context.Context) ([]journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]journal.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, cloneEntry(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) GetEntry(_ context.Context, id uuid.UUID) (journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return journal.Entry{}, journal.ErrEntryNotFound
	}
	return cloneEntry(e), nil
}

func (s *Store) InsertEntry(_ context.Context, e journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[e.ID] = cloneEntry(e)
	for _, t := range e.Tags {
		s.tags[t] = struct{}{}
	}
	return nil
}

func (s *Store) UpdateEntry(_ context.Context, e journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[e.ID]; !ok {
		return journal.ErrEntryNotFound
	}
	s.entries[e.ID] = cloneEntry(e)
	for _, t := range e.Tags {
		s.tags[t] = struct{}{}
	}
	return nil
}

func (s *Store) DeleteEntry(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return journal.ErrEntryNotFound
	}
	delete(s.entries, id)
	return nil
}

// Tags -----------------------------------------------------------------------

func (s *Store) ListTags(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.tags))
	for t := range s.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) InsertTag(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tags[name]; ok {
		return journal.ErrTagExists
	}
	s.tags[name] = struct{}{}
	return nil
}

func (s *Store) DeleteTag(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tags[name]; !ok {
		return journal.ErrTagNotFound
	}
	delete(s.tags, name)
	for id, e := range s.entries {
		kept := e.Tags[:0:0]
		for _, t := range e.Tags {
			if t != name {
				kept = append(kept, t)
			}
		}
		if len(kept) != len(e.Tags) {
			e.Tags = kept
			s.entries[id] = e
		}
	}
	return nil
}

// Users ----------------------------------------------------------------------

func (s *Store) InsertUser(_ context.Context, u journal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[u.Email]; taken {
		return journal.ErrEmailTaken
	}
	s.users[u.ID] = cloneUser(u)
	s.emails[u.Email] = u.ID
	return nil
}

func (s *Store) GetUser(_ context.Context, id uuid.UUID) (journal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return journal.User{}, journal.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (journal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return journal.User{}, journal.ErrUserNotFound
	}
	return cloneUser(s.users[id]), nil
}

func (s *Store) UpdateUser(_ context.Context, u journal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.users[u.ID]
	if !ok {
		return journal.ErrUserNotFound
	}
	if prev.Email != u.Email {
		if _, taken := s.emails[u.Email]; taken {
			return journal.ErrEmailTaken
		}
		delete(s.emails, prev.Email)
		s.emails[u.Email] = u.ID
	}
	s.users[u.ID] = cloneUser(u)
	return nil
}

// Reminders ------------------------------------------------------------------

func (s *Store) ListReminders(_ context.Context, userID uuid.UUID) ([]journal.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]journal.Reminder, 0)
	for _, r := range s.reminders {
		if userID == uuid.Nil || r.UserID == userID {
			out = append(out, cloneReminder(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetReminder(_ context.Context, id uuid.UUID) (journal.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reminders[id]
	if !ok {
		return journal.Reminder{}, journal.ErrReminderNotFound
	}
	return cloneReminder(r), nil
}

func (s *Store) InsertReminder(_ context.Context, r journal.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reminders[r.ID] = cloneReminder(r)
	return nil
}

func (s *Store) UpdateReminder(_ context.Context, r journal.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reminders[r.ID]; !ok {
		return journal.ErrReminderNotFound
	}
	s.reminders[r.ID] = cloneReminder(r)
	return nil
}

func (s *Store) DeleteReminder(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reminders[id]; !ok {
		return journal.ErrReminderNotFound
	}
	delete(s.reminders, id)
	return nil
}

// Preferences ----------------------------------------------------------------

func (s *Store) GetPreferences(_ context.Context, userID uuid.UUID) (journal.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.preferences[userID]
	if !ok {
		return journal.Preferences{}, journal.ErrPreferencesNotFound
	}
	return p, nil
}

func (s *Store) PutPreferences(_ context.Context, userID uuid.UUID, p journal.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.preferences[userID] = p
	return nil
}

func cloneEntry(e journal.Entry) journal.Entry {
	e.Tags = cloneStrings(e.Tags)
	e.Topics = cloneStrings(e.Topics)
	return e
}

func cloneUser(u journal.User) journal.User {
	if u.Subscription.RenewsAt != nil {
		t := *u.Subscription.RenewsAt
		u.Subscription.RenewsAt = &t
	}
	return u
}

func cloneReminder(r journal.Reminder) journal.Reminder {
	r.Days = cloneStrings(r.Days)
	return r
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
