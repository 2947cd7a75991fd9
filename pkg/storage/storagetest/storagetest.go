// Package storagetest holds behaviour tests every journal.Store must pass.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/unowned-ai/eunoia/pkg/journal"
)

// Run exercises newStore against the repository contracts. Each subtest gets
// a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) journal.Store) {
	t.Run("Entries", func(t *testing.T) { testEntries(t, newStore(t)) })
	t.Run("Tags", func(t *testing.T) { testTags(t, newStore(t)) })
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Reminders", func(t *testing.T) { testReminders(t, newStore(t)) })
	t.Run("Preferences", func(t *testing.T) { testPreferences(t, newStore(t)) })
}

var base = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newEntry(title string, createdAt time.Time, tags ...string) journal.Entry {
	return journal.Entry{
		ID:          uuid.New(),
		Title:       title,
		Content:     "<p>" + title + "</p>",
		ContentType: journal.DefaultContentType,
		Tags:        tags,
		Topics:      []string{"work"},
		Sentiment:   0.5,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func testEntries(t *testing.T, s journal.Store) {
	ctx := context.Background()

	older := newEntry("older", base.Add(-time.Hour), "work")
	newer := newEntry("newer", base, "work", "family")
	for _, e := range []journal.Entry{older, newer} {
		if err := s.InsertEntry(ctx, e); err != nil {
			t.Fatalf("InsertEntry(%s) failed: %v", e.Title, err)
		}
	}

	got, err := s.GetEntry(ctx, newer.ID)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if got.Title != newer.Title || got.Content != newer.Content || got.Sentiment != newer.Sentiment {
		t.Errorf("GetEntry returned %+v, want %+v", got, newer)
	}
	if !got.CreatedAt.Equal(newer.CreatedAt) || !got.UpdatedAt.Equal(newer.UpdatedAt) {
		t.Errorf("timestamps not preserved: got %v/%v", got.CreatedAt, got.UpdatedAt)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "work" || got.Tags[1] != "family" {
		t.Errorf("tags not preserved in order: %v", got.Tags)
	}
	if len(got.Topics) != 1 || got.Topics[0] != "work" {
		t.Errorf("topics not preserved: %v", got.Topics)
	}

	list, err := s.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("ListEntries should return newest first, got %d entries", len(list))
	}

	list[0].Tags[0] = "mutated"
	again, _ := s.GetEntry(ctx, newer.ID)
	if again.Tags[0] != "work" {
		t.Errorf("store shares tag slices with callers")
	}

	updated := got
	updated.Title = "renamed"
	updated.Tags = []string{"health"}
	updated.UpdatedAt = base.Add(time.Minute)
	if err := s.UpdateEntry(ctx, updated); err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	got, _ = s.GetEntry(ctx, newer.ID)
	if got.Title != "renamed" || len(got.Tags) != 1 || got.Tags[0] != "health" {
		t.Errorf("update not applied: %+v", got)
	}

	missing := newEntry("ghost", base)
	if err := s.UpdateEntry(ctx, missing); !errors.Is(err, journal.ErrEntryNotFound) {
		t.Errorf("UpdateEntry on unknown id: expected ErrEntryNotFound, got %v", err)
	}

	if err := s.DeleteEntry(ctx, older.ID); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if _, err := s.GetEntry(ctx, older.ID); !errors.Is(err, journal.ErrEntryNotFound) {
		t.Errorf("GetEntry after delete: expected ErrEntryNotFound, got %v", err)
	}
	if err := s.DeleteEntry(ctx, older.ID); !errors.Is(err, journal.ErrEntryNotFound) {
		t.Errorf("second DeleteEntry: expected ErrEntryNotFound, got %v", err)
	}
}

func testTags(t *testing.T, s journal.Store) {
	ctx := context.Background()

	if err := s.InsertTag(ctx, "gratitude"); err != nil {
		t.Fatalf("InsertTag failed: %v", err)
	}
	if err := s.InsertTag(ctx, "gratitude"); !errors.Is(err, journal.ErrTagExists) {
		t.Errorf("duplicate InsertTag: expected ErrTagExists, got %v", err)
	}

	e := newEntry("tagged", base, "gratitude", "family")
	if err := s.InsertEntry(ctx, e); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 2 || tags[0] != "family" || tags[1] != "gratitude" {
		t.Errorf("ListTags = %v, want [family gratitude]", tags)
	}

	if err := s.DeleteTag(ctx, "gratitude"); err != nil {
		t.Fatalf("DeleteTag failed: %v", err)
	}
	got, _ := s.GetEntry(ctx, e.ID)
	if len(got.Tags) != 1 || got.Tags[0] != "family" {
		t.Errorf("deleted tag still attached: %v", got.Tags)
	}
	if err := s.DeleteTag(ctx, "gratitude"); !errors.Is(err, journal.ErrTagNotFound) {
		t.Errorf("DeleteTag on unknown tag: expected ErrTagNotFound, got %v", err)
	}

	got.Tags = append(got.Tags, "travel")
	if err := s.UpdateEntry(ctx, got); err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	tags, _ = s.ListTags(ctx)
	if len(tags) != 2 || tags[0] != "family" || tags[1] != "travel" {
		t.Errorf("UpdateEntry should register new tags, ListTags = %v", tags)
	}
}

func testUsers(t *testing.T, s journal.Store) {
	ctx := context.Background()

	renews := base.AddDate(0, 1, 0)
	u := journal.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: "$2a$04$hash",
		Profile:      journal.Profile{DisplayName: "Sam"},
		Subscription: journal.Subscription{Plan: "premium", Status: "active", RenewsAt: &renews},
		MFAEnabled:   true,
		CreatedAt:    base,
	}
	if err := s.InsertUser(ctx, u); err != nil {
		t.Fatalf("InsertUser failed: %v", err)
	}

	dup := u
	dup.ID = uuid.New()
	if err := s.InsertUser(ctx, dup); !errors.Is(err, journal.ErrEmailTaken) {
		t.Errorf("duplicate email: expected ErrEmailTaken, got %v", err)
	}

	got, err := s.FindUserByEmail(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("FindUserByEmail failed: %v", err)
	}
	if got.ID != u.ID || got.PasswordHash != u.PasswordHash || !got.MFAEnabled {
		t.Errorf("FindUserByEmail returned %+v", got)
	}
	if got.Subscription.RenewsAt == nil || !got.Subscription.RenewsAt.Equal(renews) {
		t.Errorf("RenewsAt not preserved: %v", got.Subscription.RenewsAt)
	}

	if _, err := s.FindUserByEmail(ctx, "User@example.com"); !errors.Is(err, journal.ErrUserNotFound) {
		t.Errorf("email lookup must be case-sensitive, got %v", err)
	}

	got.Profile.Bio = "writes daily"
	if err := s.UpdateUser(ctx, got); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	byID, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if byID.Profile.Bio != "writes daily" {
		t.Errorf("UpdateUser not applied: %+v", byID.Profile)
	}
	if _, err := s.GetUser(ctx, uuid.New()); !errors.Is(err, journal.ErrUserNotFound) {
		t.Errorf("GetUser on unknown id: expected ErrUserNotFound, got %v", err)
	}
}

func testReminders(t *testing.T, s journal.Store) {
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	mk := func(user uuid.UUID, clock string) journal.Reminder {
		return journal.Reminder{
			ID: uuid.New(), UserID: user, Time: clock, Days: []string{journal.Everyday},
			Message: "write", Enabled: true, CreatedAt: base, UpdatedAt: base,
		}
	}
	late, early, other := mk(alice, "21:00"), mk(alice, "07:30"), mk(bob, "12:00")
	for _, r := range []journal.Reminder{late, early, other} {
		if err := s.InsertReminder(ctx, r); err != nil {
			t.Fatalf("InsertReminder failed: %v", err)
		}
	}

	mine, err := s.ListReminders(ctx, alice)
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != early.ID || mine[1].ID != late.ID {
		t.Errorf("ListReminders(alice) should return two reminders ordered by time, got %d", len(mine))
	}
	all, _ := s.ListReminders(ctx, uuid.Nil)
	if len(all) != 3 {
		t.Errorf("ListReminders(nil) = %d reminders, want 3", len(all))
	}

	early.Enabled = false
	early.Days = []string{"monday", "friday"}
	if err := s.UpdateReminder(ctx, early); err != nil {
		t.Fatalf("UpdateReminder failed: %v", err)
	}
	got, err := s.GetReminder(ctx, early.ID)
	if err != nil {
		t.Fatalf("GetReminder failed: %v", err)
	}
	if got.Enabled || len(got.Days) != 2 || got.Days[1] != "friday" {
		t.Errorf("UpdateReminder not applied: %+v", got)
	}

	if err := s.DeleteReminder(ctx, early.ID); err != nil {
		t.Fatalf("DeleteReminder failed: %v", err)
	}
	if err := s.DeleteReminder(ctx, early.ID); !errors.Is(err, journal.ErrReminderNotFound) {
		t.Errorf("second DeleteReminder: expected ErrReminderNotFound, got %v", err)
	}
}

func testPreferences(t *testing.T, s journal.Store) {
	ctx := context.Background()
	user := uuid.New()

	if _, err := s.GetPreferences(ctx, user); !errors.Is(err, journal.ErrPreferencesNotFound) {
		t.Fatalf("expected ErrPreferencesNotFound, got %v", err)
	}

	p := journal.DefaultPreferences()
	p.Theme = "dark"
	p.Privacy.LockJournal = true
	if err := s.PutPreferences(ctx, user, p); err != nil {
		t.Fatalf("PutPreferences failed: %v", err)
	}
	p.FontSize = "large"
	if err := s.PutPreferences(ctx, user, p); err != nil {
		t.Fatalf("second PutPreferences failed: %v", err)
	}

	got, err := s.GetPreferences(ctx, user)
	if err != nil {
		t.Fatalf("GetPreferences failed: %v", err)
	}
	if got != p {
		t.Errorf("GetPreferences = %+v, want %+v", got, p)
	}
}
