package sqlstore

import (
	"context"
	"fmt"

	"github.com/unowned-ai/eunoia/pkg/journal"
)

const (
	listTagsStatement  = `SELECT tag FROM tags ORDER BY tag ASC`
	insertTagStatement = `INSERT INTO tags (tag) VALUES (?)`
	deleteTagStatement = `DELETE FROM tags WHERE tag = ?`
)

func (s *Store) ListTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, listTagsStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}
	return tags, nil
}

func (s *Store) InsertTag(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, insertTagStatement, name); err != nil {
		if isConstraintViolation(err) {
			return journal.ErrTagExists
		}
		return fmt.Errorf("failed to insert tag: %w", err)
	}
	return nil
}

// DeleteTag removes the tag; entry_tags rows go with it through ON DELETE CASCADE.
func (s *Store) DeleteTag(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, deleteTagStatement, name)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return requireAffected(res, journal.ErrTagNotFound)
}
