package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/unowned-ai/eunoia/pkg/journal"
)

const (
	userColumns = `id, email, password_hash, display_name, avatar_url, bio, timezone,
	plan, plan_status, plan_renews_at, mfa_enabled, sso_provider, created_at`

	insertUserStatement = `
	INSERT INTO users (` + userColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	getUserStatement         = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	findUserByEmailStatement = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	updateUserStatement = `
	UPDATE users
	SET email = ?, password_hash = ?, display_name = ?, avatar_url = ?, bio = ?, timezone = ?,
	    plan = ?, plan_status = ?, plan_renews_at = ?, mfa_enabled = ?, sso_provider = ?
	WHERE id = ?
	`
)

func scanUser(row rowScanner) (journal.User, error) {
	var u journal.User
	var renews sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash,
		&u.Profile.DisplayName, &u.Profile.AvatarURL, &u.Profile.Bio, &u.Profile.Timezone,
		&u.Subscription.Plan, &u.Subscription.Status, &renews,
		&u.MFAEnabled, &u.SSOProvider, &u.CreatedAt)
	if err != nil {
		return journal.User{}, err
	}
	if renews.Valid {
		t := renews.Time
		u.Subscription.RenewsAt = &t
	}
	return u, nil
}

func renewsAt(u journal.User) sql.NullTime {
	if u.Subscription.RenewsAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: u.Subscription.RenewsAt.UTC(), Valid: true}
}

func (s *Store) InsertUser(ctx context.Context, u journal.User) error {
	_, err := s.db.ExecContext(ctx, insertUserStatement,
		u.ID, u.Email, u.PasswordHash,
		u.Profile.DisplayName, u.Profile.AvatarURL, u.Profile.Bio, u.Profile.Timezone,
		u.Subscription.Plan, u.Subscription.Status, renewsAt(u),
		u.MFAEnabled, u.SSOProvider, u.CreatedAt.UTC())
	if err != nil {
		if isConstraintViolation(err) {
			return journal.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (journal.User, error) {
	return s.queryUser(ctx, getUserStatement, id)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (journal.User, error) {
	return s.queryUser(ctx, findUserByEmailStatement, email)
}

func (s *Store) UpdateUser(ctx context.Context, u journal.User) error {
	res, err := s.db.ExecContext(ctx, updateUserStatement,
		u.Email, u.PasswordHash,
		u.Profile.DisplayName, u.Profile.AvatarURL, u.Profile.Bio, u.Profile.Timezone,
		u.Subscription.Plan, u.Subscription.Status, renewsAt(u),
		u.MFAEnabled, u.SSOProvider, u.ID)
	if err != nil {
		if isConstraintViolation(err) {
			return journal.ErrEmailTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireAffected(res, journal.ErrUserNotFound)
}

func (s *Store) queryUser(ctx context.Context, query string, arg any) (journal.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return journal.User{}, journal.ErrUserNotFound
	}
	if err != nil {
		return journal.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}
