package journal

import (
	"time"

	"github.com/google/uuid"
)

// DefaultContentType is used when an entry is created without one.
const DefaultContentType = "text/html"

// Entry is a single journal record.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentType string    `json:"content_type,omitempty"`
	Tags        []string  `json:"tags"`
	Topics      []string  `json:"topics,omitempty"`
	Sentiment   float64   `json:"sentiment"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EntryDraft carries the caller-supplied fields of a new entry.
type EntryDraft struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	ContentType string   `json:"content_type,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// EntryPatch is a partial update. Nil fields are left untouched.
type EntryPatch struct {
	Title       *string   `json:"title,omitempty"`
	Content     *string   `json:"content,omitempty"`
	ContentType *string   `json:"content_type,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Topics      *[]string `json:"topics,omitempty"`
	Sentiment   *float64  `json:"sentiment,omitempty"`
}

// EntryPage is one page of filtered entries. Total counts every match.
type EntryPage struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

// Tag is a label with the number of entries that currently carry it.
type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Template seeds a new entry with a prompt structure.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags,omitempty"`
}

type Profile struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

type Subscription struct {
	Plan     string     `json:"plan"`
	Status   string     `json:"status"`
	RenewsAt *time.Time `json:"renews_at,omitempty"`
}

// User is an account. PasswordHash holds a bcrypt hash and is never serialized.
type User struct {
	ID           uuid.UUID    `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Profile      Profile      `json:"profile"`
	Subscription Subscription `json:"subscription"`
	MFAEnabled   bool         `json:"mfa_enabled"`
	SSOProvider  string       `json:"sso_provider,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Session is the outcome of a login. When MFARequired is set, Token is empty
// and the caller must complete the challenge with VerifyMFA.
type Session struct {
	User        User      `json:"user"`
	Token       string    `json:"token,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
	MFARequired bool      `json:"mfa_required,omitempty"`
	ChallengeID string    `json:"challenge_id,omitempty"`
}

type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

// Everyday is the Days value for a reminder that fires daily.
const Everyday = "everyday"

// Reminder is a recurring writing nudge. Time is "HH:MM" and Days holds
// lowercase weekday names or the single value Everyday.
type Reminder struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Time      string    `json:"time"`
	Days      []string  `json:"days"`
	Message   string    `json:"message"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReminderInput struct {
	Time    string   `json:"time"`
	Days    []string `json:"days,omitempty"`
	Message string   `json:"message"`
	Enabled *bool    `json:"enabled,omitempty"`
}

type ReminderPatch struct {
	Time    *string   `json:"time,omitempty"`
	Days    *[]string `json:"days,omitempty"`
	Message *string   `json:"message,omitempty"`
	Enabled *bool     `json:"enabled,omitempty"`
}

type PrivacySettings struct {
	ShareAnalytics bool `json:"share_analytics"`
	PublicProfile  bool `json:"public_profile"`
	LockJournal    bool `json:"lock_journal"`
}

// Preferences are per-user display and notification settings.
type Preferences struct {
	Theme              string          `json:"theme"`
	FontSize           string          `json:"font_size"`
	Language           string          `json:"language"`
	EmailNotifications bool            `json:"email_notifications"`
	PushNotifications  bool            `json:"push_notifications"`
	WeeklyDigest       bool            `json:"weekly_digest"`
	Privacy            PrivacySettings `json:"privacy"`
}

// PreferencesPatch is merged one level deep: a non-nil Privacy replaces the
// stored privacy block as a whole.
type PreferencesPatch struct {
	Theme              *string          `json:"theme,omitempty"`
	FontSize           *string          `json:"font_size,omitempty"`
	Language           *string          `json:"language,omitempty"`
	EmailNotifications *bool            `json:"email_notifications,omitempty"`
	PushNotifications  *bool            `json:"push_notifications,omitempty"`
	WeeklyDigest       *bool            `json:"weekly_digest,omitempty"`
	Privacy            *PrivacySettings `json:"privacy,omitempty"`
}

// DefaultPreferences is returned for users who never saved any.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:              "system",
		FontSize:           "medium",
		Language:           "en",
		EmailNotifications: true,
		PushNotifications:  false,
		WeeklyDigest:       true,
		Privacy: PrivacySettings{
			ShareAnalytics: false,
			PublicProfile:  false,
			LockJournal:    false,
		},
	}
}

// Source records whether text came from the generator or the canned fallback.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// AnalysisResult describes a piece of text. It is never persisted.
type AnalysisResult struct {
	Sentiment     float64           `json:"sentiment"`
	Category      SentimentCategory `json:"category"`
	Keywords      []string          `json:"keywords"`
	Topics        []string          `json:"topics"`
	Summary       string            `json:"summary"`
	SummarySource Source            `json:"summary_source"`
}

// Generation is a batch of generated strings (prompts or suggestions).
type Generation struct {
	Items  []string `json:"items"`
	Source Source   `json:"source"`
}

type SentimentBreakdown struct {
	Positive        int     `json:"positive"`
	Neutral         int     `json:"neutral"`
	Negative        int     `json:"negative"`
	PositivePercent float64 `json:"positive_percent"`
	NeutralPercent  float64 `json:"neutral_percent"`
	NegativePercent float64 `json:"negative_percent"`
}

// EntryStats aggregates the whole journal.
type EntryStats struct {
	Total            int                `json:"total"`
	ThisWeek         int                `json:"this_week"`
	ThisMonth        int                `json:"this_month"`
	AverageWordCount float64            `json:"average_word_count"`
	Sentiment        SentimentBreakdown `json:"sentiment"`
	CurrentStreak    int                `json:"current_streak"`
	LongestStreak    int                `json:"longest_streak"`
	TopTags          []Tag              `json:"top_tags"`
}
