package store

import (
	"database/sql"
	"encoding/json"

	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// driverName is the database/sql name registered by modernc.org/sqlite.
const driverName = "sqlite"

const diagnosticColumns = `id, blob_id, check_name, severity, message, file,
	start_line, start_column, end_line, end_column, offset_start, offset_end,
	snippet_json, patch`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	// SQLite serializes writers; one connection also keeps ":memory:"
	// databases from splitting per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "configuring database")
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}
	return db, nil
}

// AddBlob stores a blob record.
func (s *SQLiteStore) AddBlob(id types.BlobID, size int64) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO blobs (id, size) VALUES (?, ?)", id.Hex(), size)
	if err != nil {
		return errors.Wrap(err, "inserting blob")
	}
	return nil
}

// BlobExists checks if a blob has already been analyzed.
func (s *SQLiteStore) BlobExists(id types.BlobID) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM blobs WHERE id = ?", id.Hex()).Scan(&count)
	if err != nil {
		return false, errors.Wrap(err, "checking blob existence")
	}
	return count > 0, nil
}

// AddProvenance associates provenance with a blob.
func (s *SQLiteStore) AddProvenance(blobID types.BlobID, prov types.Provenance) error {
	switch prov.(type) {
	case types.FileProvenance, types.StdinProvenance:
	default:
		return errors.Newf("unknown provenance type: %T", prov)
	}

	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO provenance (blob_id, type, path)
		VALUES (?, ?, ?)
	`, blobID.Hex(), prov.Kind(), prov.Path())
	if err != nil {
		return errors.Wrap(err, "inserting provenance")
	}
	return nil
}

// GetProvenance returns every provenance recorded for a blob.
func (s *SQLiteStore) GetProvenance(blobID types.BlobID) ([]types.Provenance, error) {
	rows, err := s.db.Query(`
		SELECT type, path FROM provenance WHERE blob_id = ? ORDER BY id
	`, blobID.Hex())
	if err != nil {
		return nil, errors.Wrap(err, "querying provenance")
	}
	defer rows.Close()

	provs := []types.Provenance{}
	for rows.Next() {
		var kind, path string
		if err := rows.Scan(&kind, &path); err != nil {
			return nil, errors.Wrap(err, "scanning provenance")
		}
		p, err := provenanceFromRow(kind, path)
		if err != nil {
			return nil, err
		}
		provs = append(provs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating provenance")
	}
	return provs, nil
}

// AddDiagnostic stores a diagnostic (deduplicated).
func (s *SQLiteStore) AddDiagnostic(d *types.Diagnostic) error {
	snippetJSON, err := json.Marshal(d.Snippet)
	if err != nil {
		return errors.Wrap(err, "marshaling snippet")
	}

	_, err = s.db.Exec(`
		INSERT OR IGNORE INTO diagnostics (`+diagnosticColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.ID,
		d.BlobID.Hex(),
		string(d.Check),
		d.Severity.String(),
		d.Message,
		d.File,
		d.Range.Start.Line,
		d.Range.Start.Column,
		d.Range.End.Line,
		d.Range.End.Column,
		d.Range.Offset.Start,
		d.Range.Offset.End,
		string(snippetJSON),
		d.Patch,
	)
	if err != nil {
		return errors.Wrap(err, "inserting diagnostic")
	}
	return nil
}

// GetDiagnostics retrieves the diagnostics for a blob.
func (s *SQLiteStore) GetDiagnostics(blobID types.BlobID) ([]*types.Diagnostic, error) {
	return s.queryDiagnostics(`
		SELECT `+diagnosticColumns+` FROM diagnostics
		WHERE blob_id = ?
		ORDER BY file, start_line, start_column, check_name, id
	`, blobID.Hex())
}

// GetAllDiagnostics retrieves every diagnostic in report order.
func (s *SQLiteStore) GetAllDiagnostics() ([]*types.Diagnostic, error) {
	return s.queryDiagnostics(`
		SELECT ` + diagnosticColumns + ` FROM diagnostics
		ORDER BY file, start_line, start_column, check_name, id
	`)
}

func (s *SQLiteStore) queryDiagnostics(query string, args ...any) ([]*types.Diagnostic, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying diagnostics")
	}
	defer rows.Close()

	diags := []*types.Diagnostic{}
	for rows.Next() {
		d, err := scanDiagnostic(rows)
		if err != nil {
			return nil, err
		}
		diags = append(diags, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating diagnostics")
	}
	return diags, nil
}

func scanDiagnostic(rows *sql.Rows) (*types.Diagnostic, error) {
	var (
		d           types.Diagnostic
		check       string
		severity    string
		snippetJSON sql.NullString
		patch       sql.NullString
	)
	err := rows.Scan(
		&d.ID,
		&d.BlobID,
		&check,
		&severity,
		&d.Message,
		&d.File,
		&d.Range.Start.Line,
		&d.Range.Start.Column,
		&d.Range.End.Line,
		&d.Range.End.Column,
		&d.Range.Offset.Start,
		&d.Range.Offset.End,
		&snippetJSON,
		&patch,
	)
	if err != nil {
		return nil, errors.Wrap(err, "scanning diagnostic")
	}

	d.Check = types.Check(check)
	d.Range.File = d.File
	d.Patch = patch.String
	if d.Severity, err = types.ParseSeverity(severity); err != nil {
		return nil, err
	}
	if snippetJSON.Valid && snippetJSON.String != "" {
		if err := json.Unmarshal([]byte(snippetJSON.String), &d.Snippet); err != nil {
			return nil, errors.Wrap(err, "unmarshaling snippet")
		}
	}
	return &d, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
