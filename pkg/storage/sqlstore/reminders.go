package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/unowned-ai/eunoia/pkg/journal"
)

const (
	reminderColumns = `id, user_id, time_of_day, days, message, enabled, created_at, updated_at`

	listRemindersStatement = `
	SELECT ` + reminderColumns + ` FROM reminders
	WHERE (? = '` + nilUUID + `' OR user_id = ?)
	ORDER BY time_of_day ASC, created_at ASC
	`

	getReminderStatement = `SELECT ` + reminderColumns + ` FROM reminders WHERE id = ?`

	insertReminderStatement = `
	INSERT INTO reminders (` + reminderColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	updateReminderStatement = `
	UPDATE reminders
	SET time_of_day = ?, days = ?, message = ?, enabled = ?, updated_at = ?
	WHERE id = ?
	`

	deleteReminderStatement = `DELETE FROM reminders WHERE id = ?`

	nilUUID = "00000000-0000-0000-0000-000000000000"
)

func scanReminder(row rowScanner) (journal.Reminder, error) {
	var r journal.Reminder
	var days string
	err := row.Scan(&r.ID, &r.UserID, &r.Time, &days, &r.Message, &r.Enabled, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return journal.Reminder{}, err
	}
	if err := json.Unmarshal([]byte(days), &r.Days); err != nil {
		return journal.Reminder{}, fmt.Errorf("failed to decode days of reminder %s: %w", r.ID, err)
	}
	return r, nil
}

func (s *Store) ListReminders(ctx context.Context, userID uuid.UUID) ([]journal.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, listRemindersStatement, userID.String(), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	out := []journal.Reminder{}
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminder rows: %w", err)
	}
	return out, nil
}

func (s *Store) GetReminder(ctx context.Context, id uuid.UUID) (journal.Reminder, error) {
	r, err := scanReminder(s.db.QueryRowContext(ctx, getReminderStatement, id))
	if errors.Is(err, sql.ErrNoRows) {
		return journal.Reminder{}, journal.ErrReminderNotFound
	}
	if err != nil {
		return journal.Reminder{}, fmt.Errorf("failed to get reminder %s: %w", id, err)
	}
	return r, nil
}

func (s *Store) InsertReminder(ctx context.Context, r journal.Reminder) error {
	days, err := encodeStrings(r.Days)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, insertReminderStatement,
		r.ID, r.UserID, r.Time, days, r.Message, r.Enabled, r.CreatedAt.UTC(), r.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

func (s *Store) UpdateReminder(ctx context.Context, r journal.Reminder) error {
	days, err := encodeStrings(r.Days)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, updateReminderStatement,
		r.Time, days, r.Message, r.Enabled, r.UpdatedAt.UTC(), r.ID)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	return requireAffected(res, journal.ErrReminderNotFound)
}

func (s *Store) DeleteReminder(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, deleteReminderStatement, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return requireAffected(res, journal.ErrReminderNotFound)
}
