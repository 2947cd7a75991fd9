// Package seed loads the demo dataset into an empty store.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/unowned-ai/eunoia/pkg/journal"
)

//go:embed seed.yaml
var defaultDataset []byte

type User struct {
	Email        string `yaml:"email"`
	Password     string `yaml:"password"`
	DisplayName  string `yaml:"display_name"`
	Plan         string `yaml:"plan"`
	RenewsInDays int    `yaml:"renews_in_days"`
	MFA          bool   `yaml:"mfa"`
}

type Entry struct {
	Title     string   `yaml:"title"`
	Content   string   `yaml:"content"`
	Tags      []string `yaml:"tags"`
	DaysAgo   int      `yaml:"days_ago"`
	Sentiment *float64 `yaml:"sentiment"`
}

type Reminder struct {
	Email   string   `yaml:"email"`
	Time    string   `yaml:"time"`
	Days    []string `yaml:"days"`
	Message string   `yaml:"message"`
	Enabled *bool    `yaml:"enabled"`
}

type Privacy struct {
	ShareAnalytics bool `yaml:"share_analytics"`
	PublicProfile  bool `yaml:"public_profile"`
	LockJournal    bool `yaml:"lock_journal"`
}

type Preferences struct {
	Email              string  `yaml:"email"`
	Theme              string  `yaml:"theme"`
	FontSize           string  `yaml:"font_size"`
	Language           string  `yaml:"language"`
	EmailNotifications bool    `yaml:"email_notifications"`
	PushNotifications  bool    `yaml:"push_notifications"`
	WeeklyDigest       bool    `yaml:"weekly_digest"`
	Privacy            Privacy `yaml:"privacy"`
}

// Dataset is the YAML seed document.
type Dataset struct {
	Users       []User        `yaml:"users"`
	Tags        []string      `yaml:"tags"`
	Entries     []Entry       `yaml:"entries"`
	Reminders   []Reminder    `yaml:"reminders"`
	Preferences []Preferences `yaml:"preferences"`
}

// Summary reports what Load wrote.
type Summary struct {
	Skipped   bool
	Users     int
	Tags      int
	Entries   int
	Reminders int
}

// Hasher turns a plain password into the stored hash.
type Hasher func(password string) (string, error)

func Parse(r io.Reader) (Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("parse seed: %w", err)
	}
	return ds, nil
}

// Default returns the embedded demo dataset.
func Default() (Dataset, error) {
	return Parse(strings.NewReader(string(defaultDataset)))
}

// FromFile parses path, or the embedded dataset when path is empty.
func FromFile(path string) (Dataset, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Load writes ds into store, placing entries relative to now. A store that
// already holds entries or users from ds is left untouched.
func Load(ctx context.Context, store journal.Store, ds Dataset, hash Hasher, now time.Time) (Summary, error) {
	var sum Summary

	existing, err := store.ListEntries(ctx)
	if err != nil {
		return sum, fmt.Errorf("list entries: %w", err)
	}
	if len(existing) > 0 {
		sum.Skipped = true
		return sum, nil
	}

	users := make(map[string]uuid.UUID, len(ds.Users))
	for _, u := range ds.Users {
		id, err := loadUser(ctx, store, u, hash, now)
		if err != nil {
			return sum, err
		}
		users[u.Email] = id
		sum.Users++
	}

	for _, name := range ds.Tags {
		if err := store.InsertTag(ctx, name); err != nil && !errors.Is(err, journal.ErrTagExists) {
			return sum, fmt.Errorf("insert tag %q: %w", name, err)
		}
		sum.Tags++
	}

	for _, e := range ds.Entries {
		if err := store.InsertEntry(ctx, buildEntry(e, now)); err != nil {
			return sum, fmt.Errorf("insert entry %q: %w", e.Title, err)
		}
		sum.Entries++
	}

	for _, r := range ds.Reminders {
		userID, ok := users[r.Email]
		if !ok {
			return sum, fmt.Errorf("reminder %q references unknown user %s", r.Message, r.Email)
		}
		rem, err := buildReminder(r, userID, now)
		if err != nil {
			return sum, err
		}
		if err := store.InsertReminder(ctx, rem); err != nil {
			return sum, fmt.Errorf("insert reminder: %w", err)
		}
		sum.Reminders++
	}

	for _, p := range ds.Preferences {
		userID, ok := users[p.Email]
		if !ok {
			return sum, fmt.Errorf("preferences reference unknown user %s", p.Email)
		}
		if err := store.PutPreferences(ctx, userID, p.toDomain()); err != nil {
			return sum, fmt.Errorf("store preferences: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"users": sum.Users, "tags": sum.Tags, "entries": sum.Entries, "reminders": sum.Reminders,
	}).Info("seed data loaded")
	return sum, nil
}

func loadUser(ctx context.Context, store journal.Store, u User, hash Hasher, now time.Time) (uuid.UUID, error) {
	if found, err := store.FindUserByEmail(ctx, u.Email); err == nil {
		return found.ID, nil
	} else if !errors.Is(err, journal.ErrUserNotFound) {
		return uuid.Nil, fmt.Errorf("find user %s: %w", u.Email, err)
	}

	pw, err := hash(u.Password)
	if err != nil {
		return uuid.Nil, err
	}
	plan := u.Plan
	if plan == "" {
		plan = "free"
	}
	sub := journal.Subscription{Plan: plan, Status: "active"}
	if u.RenewsInDays > 0 {
		renews := now.AddDate(0, 0, u.RenewsInDays)
		sub.RenewsAt = &renews
	}
	user := journal.User{
		ID:           uuid.New(),
		Email:        u.Email,
		PasswordHash: pw,
		Profile:      journal.Profile{DisplayName: u.DisplayName, Timezone: "UTC"},
		Subscription: sub,
		MFAEnabled:   u.MFA,
		CreatedAt:    now,
	}
	if err := store.InsertUser(ctx, user); err != nil {
		return uuid.Nil, fmt.Errorf("insert user %s: %w", u.Email, err)
	}
	return user.ID, nil
}

func buildEntry(e Entry, now time.Time) journal.Entry {
	at := now.AddDate(0, 0, -e.DaysAgo)
	text := e.Title + "\n" + e.Content
	sentiment := journal.ScoreSentiment(text)
	if e.Sentiment != nil {
		sentiment = *e.Sentiment
	}
	topics := journal.DetectTopics(text)
	if topics == nil {
		topics = []string{}
	}
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return journal.Entry{
		ID:          uuid.New(),
		Title:       e.Title,
		Content:     e.Content,
		ContentType: journal.DefaultContentType,
		Tags:        tags,
		Topics:      topics,
		Sentiment:   sentiment,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func buildReminder(r Reminder, userID uuid.UUID, now time.Time) (journal.Reminder, error) {
	days, err := journal.NormalizeDays(r.Days)
	if err != nil {
		return journal.Reminder{}, err
	}
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	rem := journal.Reminder{
		ID:        uuid.New(),
		UserID:    userID,
		Time:      r.Time,
		Days:      days,
		Message:   r.Message,
		Enabled:   enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := journal.CronSpec(rem); err != nil {
		return journal.Reminder{}, err
	}
	return rem, nil
}

func (p Preferences) toDomain() journal.Preferences {
	return journal.Preferences{
		Theme:              p.Theme,
		FontSize:           p.FontSize,
		Language:           p.Language,
		EmailNotifications: p.EmailNotifications,
		PushNotifications:  p.PushNotifications,
		WeeklyDigest:       p.WeeklyDigest,
		Privacy: journal.PrivacySettings{
			ShareAnalytics: p.Privacy.ShareAnalytics,
			PublicProfile:  p.Privacy.PublicProfile,
			LockJournal:    p.Privacy.LockJournal,
		},
	}
}
