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
	entryColumns = `id, title, content, content_type, sentiment, topics, created_at, updated_at`

	listEntriesStatement = `
	SELECT ` + entryColumns + `
	FROM entries
	ORDER BY created_at DESC, id ASC
	`

	getEntryStatement = `
	SELECT ` + entryColumns + `
	FROM entries
	WHERE id = ?
	`

	insertEntryStatement = `
	INSERT INTO entries (id, title, content, content_type, sentiment, topics, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	updateEntryStatement = `
	UPDATE entries
	SET title = ?, content = ?, content_type = ?, sentiment = ?, topics = ?, updated_at = ?
	WHERE id = ?
	`

	deleteEntryStatement = `DELETE FROM entries WHERE id = ?`

	listAllEntryTagsStatement = `
	SELECT entry_id, tag FROM entry_tags ORDER BY entry_id, position
	`

	listEntryTagsStatement = `
	SELECT tag FROM entry_tags WHERE entry_id = ? ORDER BY position
	`

	ensureTagStatement      = `INSERT OR IGNORE INTO tags (tag) VALUES (?)`
	insertEntryTagStatement = `INSERT INTO entry_tags (entry_id, tag, position) VALUES (?, ?, ?)`
	clearEntryTagsStatement = `DELETE FROM entry_tags WHERE entry_id = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (journal.Entry, error) {
	var e journal.Entry
	var topics string
	err := row.Scan(&e.ID, &e.Title, &e.Content, &e.ContentType, &e.Sentiment, &topics, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return journal.Entry{}, err
	}
	if err := json.Unmarshal([]byte(topics), &e.Topics); err != nil {
		return journal.Entry{}, fmt.Errorf("failed to decode topics of entry %s: %w", e.ID, err)
	}
	e.Tags = []string{}
	return e, nil
}

func (s *Store) ListEntries(ctx context.Context) ([]journal.Entry, error) {
	rows, err := s.db.QueryContext(ctx, listEntriesStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	var entries []journal.Entry
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		index[e.ID] = len(entries)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}
	rows.Close()

	// The pool holds a single connection, so tags are read only after the
	// entry rows are closed.
	tagRows, err := s.db.QueryContext(ctx, listAllEntryTagsStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var id uuid.UUID
		var tag string
		if err := tagRows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan entry tag row: %w", err)
		}
		if i, ok := index[id]; ok {
			entries[i].Tags = append(entries[i].Tags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry tag rows: %w", err)
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	return entries, nil
}

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (journal.Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, getEntryStatement, id))
	if errors.Is(err, sql.ErrNoRows) {
		return journal.Entry{}, journal.ErrEntryNotFound
	}
	if err != nil {
		return journal.Entry{}, fmt.Errorf("failed to get entry %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, listEntryTagsStatement, id)
	if err != nil {
		return journal.Entry{}, fmt.Errorf("failed to query tags of entry %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return journal.Entry{}, fmt.Errorf("failed to scan entry tag row: %w", err)
		}
		e.Tags = append(e.Tags, tag)
	}
	return e, rows.Err()
}

func (s *Store) InsertEntry(ctx context.Context, e journal.Entry) error {
	topics, err := encodeStrings(e.Topics)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, insertEntryStatement,
			e.ID, e.Title, e.Content, e.ContentType, e.Sentiment, topics, e.CreatedAt.UTC(), e.UpdatedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
		return writeEntryTags(ctx, tx, e.ID, e.Tags)
	})
}

func (s *Store) UpdateEntry(ctx context.Context, e journal.Entry) error {
	topics, err := encodeStrings(e.Topics)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, updateEntryStatement,
			e.Title, e.Content, e.ContentType, e.Sentiment, topics, e.UpdatedAt.UTC(), e.ID)
		if err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}
		if err := requireAffected(res, journal.ErrEntryNotFound); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, clearEntryTagsStatement, e.ID); err != nil {
			return fmt.Errorf("failed to clear entry tags: %w", err)
		}
		return writeEntryTags(ctx, tx, e.ID, e.Tags)
	})
}

func (s *Store) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, deleteEntryStatement, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return requireAffected(res, journal.ErrEntryNotFound)
}

func writeEntryTags(ctx context.Context, tx *sql.Tx, entryID uuid.UUID, tags []string) error {
	for i, tag := range tags {
		if _, err := tx.ExecContext(ctx, ensureTagStatement, tag); err != nil {
			return fmt.Errorf("failed to ensure tag %q: %w", tag, err)
		}
		if _, err := tx.ExecContext(ctx, insertEntryTagStatement, entryID, tag, i); err != nil {
			return fmt.Errorf("failed to tag entry with %q: %w", tag, err)
		}
	}
	return nil
}

func encodeStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(b), nil
}
