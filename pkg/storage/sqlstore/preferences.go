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
	getPreferencesStatement = `SELECT settings FROM preferences WHERE user_id = ?`

	putPreferencesStatement = `
	INSERT INTO preferences (user_id, settings) VALUES (?, ?)
	ON CONFLICT(user_id) DO UPDATE SET settings = excluded.settings, updated_at = unixepoch()
	`
)

func (s *Store) GetPreferences(ctx context.Context, userID uuid.UUID) (journal.Preferences, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, getPreferencesStatement, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return journal.Preferences{}, journal.ErrPreferencesNotFound
	}
	if err != nil {
		return journal.Preferences{}, fmt.Errorf("failed to get preferences: %w", err)
	}
	var p journal.Preferences
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return journal.Preferences{}, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return p, nil
}

func (s *Store) PutPreferences(ctx context.Context, userID uuid.UUID, p journal.Preferences) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, putPreferencesStatement, userID, string(raw)); err != nil {
		return fmt.Errorf("failed to store preferences: %w", err)
	}
	return nil
}
