package store

import (
	"database/sql"
	"os"

	"github.com/cockroachdb/errors"
)

// MergeConfig configures the merge operation.
type MergeConfig struct {
	// SourcePaths are the database files to merge from.
	SourcePaths []string
	// DestPath is the destination database file.
	DestPath string
}

// MergeStats tracks merge operation statistics.
type MergeStats struct {
	BlobsMerged       int
	DiagnosticsMerged int
	ProvenanceMerged  int
	SourcesProcessed  int
}

// Merge combines several result databases into one, for example the
// outputs of sharded CI jobs. Rows already present in the destination are
// skipped.
func Merge(cfg MergeConfig) (*MergeStats, error) {
	if len(cfg.SourcePaths) == 0 {
		return nil, errors.New("no source databases specified")
	}
	if cfg.DestPath == "" {
		return nil, errors.New("destination path is required")
	}

	// Opening a missing file would create an empty database.
	for _, sourcePath := range cfg.SourcePaths {
		if _, err := os.Stat(sourcePath); err != nil {
			return nil, errors.Wrap(err, "source database")
		}
	}

	destDB, err := openDB(cfg.DestPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening destination database")
	}
	defer destDB.Close()

	stats := &MergeStats{}
	for _, sourcePath := range cfg.SourcePaths {
		sourceStats, err := mergeFrom(destDB, sourcePath)
		if err != nil {
			return stats, errors.Wrapf(err, "merging from %s", sourcePath)
		}
		stats.BlobsMerged += sourceStats.BlobsMerged
		stats.DiagnosticsMerged += sourceStats.DiagnosticsMerged
		stats.ProvenanceMerged += sourceStats.ProvenanceMerged
		stats.SourcesProcessed++
	}

	return stats, nil
}

// mergeFrom copies data from a source database to the destination.
func mergeFrom(destDB *sql.DB, sourcePath string) (*MergeStats, error) {
	sourceDB, err := openDB(sourcePath)
	if err != nil {
		return nil, errors.Wrap(err, "opening source database")
	}
	defer sourceDB.Close()

	// Rows are read fully before writing; destDB holds a single connection
	// and sourceDB may be the same file.
	blobs, err := readRows(sourceDB, "SELECT id, size FROM blobs", 2)
	if err != nil {
		return nil, errors.Wrap(err, "reading blobs")
	}
	diags, err := readRows(sourceDB, "SELECT "+diagnosticColumns+" FROM diagnostics", 14)
	if err != nil {
		return nil, errors.Wrap(err, "reading diagnostics")
	}
	provs, err := readRows(sourceDB, "SELECT blob_id, type, path FROM provenance", 3)
	if err != nil {
		return nil, errors.Wrap(err, "reading provenance")
	}

	tx, err := destDB.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback()

	stats := &MergeStats{}
	if stats.BlobsMerged, err = insertRows(tx,
		"INSERT OR IGNORE INTO blobs (id, size) VALUES (?, ?)", blobs); err != nil {
		return nil, errors.Wrap(err, "merging blobs")
	}
	if stats.DiagnosticsMerged, err = insertRows(tx,
		"INSERT OR IGNORE INTO diagnostics ("+diagnosticColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		diags); err != nil {
		return nil, errors.Wrap(err, "merging diagnostics")
	}
	if stats.ProvenanceMerged, err = insertRows(tx,
		"INSERT OR IGNORE INTO provenance (blob_id, type, path) VALUES (?, ?, ?)", provs); err != nil {
		return nil, errors.Wrap(err, "merging provenance")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing transaction")
	}
	return stats, nil
}

func readRows(db *sql.DB, query string, columns int) ([][]any, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		vals := make([]any, columns)
		ptrs := make([]any, columns)
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, vals)
	}
	return out, rows.Err()
}

func insertRows(tx *sql.Tx, query string, rows [][]any) (int, error) {
	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, vals := range rows {
		result, err := stmt.Exec(vals...)
		if err != nil {
			return count, err
		}
		affected, _ := result.RowsAffected()
		if affected > 0 {
			count++
		}
	}
	return count, nil
}
