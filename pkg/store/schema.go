package store

import (
	"database/sql"

	"github.com/cockroachdb/errors"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// CreateSchema creates the database schema if it doesn't exist.
func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return errors.Wrap(err, "creating schema_version table")
	}
	if err := createBlobsTable(db); err != nil {
		return errors.Wrap(err, "creating blobs table")
	}
	if err := createDiagnosticsTable(db); err != nil {
		return errors.Wrap(err, "creating diagnostics table")
	}
	if err := createProvenanceTable(db); err != nil {
		return errors.Wrap(err, "creating provenance table")
	}
	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	var version int
	err = db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	case err != nil:
		return err
	case version != SchemaVersion:
		return errors.Newf("database has schema version %d, expected %d", version, SchemaVersion)
	}
	return nil
}

func createBlobsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS blobs (
			id TEXT PRIMARY KEY NOT NULL,
			size INTEGER NOT NULL
		)
	`)
	return err
}

func createDiagnosticsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS diagnostics (
			id TEXT PRIMARY KEY NOT NULL,
			blob_id TEXT NOT NULL REFERENCES blobs(id),
			check_name TEXT NOT NULL,
			severity TEXT NOT NULL,
			message TEXT NOT NULL,
			file TEXT NOT NULL,
			start_line INTEGER NOT NULL,
			start_column INTEGER NOT NULL,
			end_line INTEGER NOT NULL,
			end_column INTEGER NOT NULL,
			offset_start INTEGER NOT NULL,
			offset_end INTEGER NOT NULL,
			snippet_json TEXT,
			patch TEXT
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_diagnostics_blob_id ON diagnostics(blob_id)
	`)
	return err
}

func createProvenanceTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS provenance (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blob_id TEXT NOT NULL REFERENCES blobs(id),
			type TEXT NOT NULL,
			path TEXT NOT NULL,
			UNIQUE(blob_id, type, path)
		)
	`)
	if err != nil {
		return err
	}

	// Create index for efficient provenance lookup by blob_id
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_provenance_blob_id ON provenance(blob_id)
	`)
	return err
}
