package journal

import "errors"

var (
	ErrEntryNotFound       = errors.New("entry not found")
	ErrEmptyEntry          = errors.New("entry needs a title or content")
	ErrInvalidSentiment    = errors.New("sentiment must be between -1 and 1")
	ErrInvalidFilter       = errors.New("invalid entry filter")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrTagExists           = errors.New("tag already exists")
	ErrTagNotFound         = errors.New("tag not found")
	ErrInvalidTag          = errors.New("tag name must not be empty")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrWeakPassword        = errors.New("password must be at least 8 characters")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidMFACode      = errors.New("invalid or expired verification code")
	ErrUnsupportedProvider = errors.New("unsupported sign-in provider")
	ErrInvalidToken        = errors.New("invalid or expired session token")
	ErrReminderNotFound    = errors.New("reminder not found")
	ErrInvalidReminder     = errors.New("invalid reminder")
	ErrPreferencesNotFound = errors.New("preferences not found")
)
