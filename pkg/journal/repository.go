package journal

import (
	"context"

	"github.com/google/uuid"
)

// EntryRepository persists entries. Implementations return ErrEntryNotFound
// for unknown IDs and hand out copies, never shared slices. InsertEntry and
// UpdateEntry register unknown tags in the same write as the entry.
type EntryRepository interface {
	ListEntries(ctx context.Context) ([]Entry, error)
	GetEntry(ctx context.Context, id uuid.UUID) (Entry, error)
	InsertEntry(ctx context.Context, e Entry) error
	UpdateEntry(ctx context.Context, e Entry) error
	DeleteEntry(ctx context.Context, id uuid.UUID) error
}

// TagRepository holds the tag registry. Deleting a tag detaches it from
// every entry that carries it.
type TagRepository interface {
	ListTags(ctx context.Context) ([]string, error)
	InsertTag(ctx context.Context, name string) error
	DeleteTag(ctx context.Context, name string) error
}

type UserRepository interface {
	InsertUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id uuid.UUID) (User, error)
	FindUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, u User) error
}

type ReminderRepository interface {
	// ListReminders returns the reminders of userID, or of every user when
	// userID is uuid.Nil.
	ListReminders(ctx context.Context, userID uuid.UUID) ([]Reminder, error)
	GetReminder(ctx context.Context, id uuid.UUID) (Reminder, error)
	InsertReminder(ctx context.Context, r Reminder) error
	UpdateReminder(ctx context.Context, r Reminder) error
	DeleteReminder(ctx context.Context, id uuid.UUID) error
}

type PreferencesRepository interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (Preferences, error)
	PutPreferences(ctx context.Context, userID uuid.UUID, p Preferences) error
}

// Store bundles every repository the services need.
type Store interface {
	EntryRepository
	TagRepository
	UserRepository
	ReminderRepository
	PreferencesRepository
}
