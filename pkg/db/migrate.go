package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// TargetSchemaVersion is the journaldb schema version this build expects.
	TargetSchemaVersion int64 = 1
	// JournalDBComponent names the journal tables in eunoia_versions.
	JournalDBComponent = "journaldb"
)

// GetComponentSchemaVersion returns the recorded schema version of componentName,
// or 0 when the component or the versions table does not exist yet.
func GetComponentSchemaVersion(db *sql.DB, componentName string) (int64, error) {
	var version int64
	err := db.QueryRow(`SELECT version FROM eunoia_versions WHERE component = ?;`, componentName).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") && strings.Contains(err.Error(), "eunoia_versions") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates all journaldb tables and records schemaVersionToSet.
func InitializeSchema(db *sql.DB, schemaVersionToSet int64) error {
	if _, err := db.Exec(SchemaV1); err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	const upsertVersion = `
INSERT INTO eunoia_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

	if _, err := db.Exec(upsertVersion, JournalDBComponent, schemaVersionToSet); err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", JournalDBComponent, schemaVersionToSet, err)
	}

	logrus.WithFields(logrus.Fields{"component": JournalDBComponent, "version": schemaVersionToSet}).Info("schema initialized")
	return nil
}

// UpgradeDB brings the journaldb component to targetVersion. dbIdentifier only
// appears in logs and errors.
func UpgradeDB(db *sql.DB, dbIdentifier string, targetVersion int64) error {
	current, err := GetComponentSchemaVersion(db, JournalDBComponent)
	if err != nil {
		return err
	}

	log := logrus.WithFields(logrus.Fields{"component": JournalDBComponent, "db": dbIdentifier})
	switch {
	case current == 0:
		log.WithField("target", targetVersion).Info("database uninitialized, creating schema")
		if err := InitializeSchema(db, targetVersion); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", JournalDBComponent, dbIdentifier, err)
		}
		return nil
	case current == targetVersion:
		log.WithField("version", current).Debug("schema up to date")
		return nil
	case current < targetVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d. Automatic migration from this older version is not yet supported", JournalDBComponent, dbIdentifier, current, targetVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", JournalDBComponent, dbIdentifier, current, targetVersion)
	}
}
