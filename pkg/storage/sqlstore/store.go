// Package sqlstore implements the journal repositories on SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	pkgdb "github.com/unowned-ai/eunoia/pkg/db"
	"github.com/unowned-ai/eunoia/pkg/journal"
)

// Store is a journal.Store backed by a SQLite database.
type Store struct {
	db *sql.DB
}

var _ journal.Store = (*Store)(nil)

// New wraps an open database whose schema is already current.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to the database at path and brings its schema up to date.
func Open(path string, wal bool, syncMode string) (*Store, error) {
	conn, err := pkgdb.OpenDBConnection(path, wal, syncMode)
	if err != nil {
		return nil, err
	}
	if err := pkgdb.UpgradeDB(conn, path, pkgdb.TargetSchemaVersion); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", path, err)
	}
	return &Store{db: conn}, nil
}

// DB exposes the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close checkpoints the WAL and closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	// TRUNCATE waits for writers and folds the WAL back into the main file.
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		logrus.WithError(err).Warn("wal checkpoint failed during close")
	}
	return s.db.Close()
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
