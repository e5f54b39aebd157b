// Package store persists analyzed blobs, where they came from and the
// diagnostics reported against them.
package store

import (
	"cmp"
	"slices"

	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
)

// MemoryPath selects the in-memory backend.
const MemoryPath = ":memory:"

// Store provides persistence for analysis results.
type Store interface {
	// AddBlob records that a blob has been analyzed.
	AddBlob(id types.BlobID, size int64) error

	// BlobExists checks if a blob has already been analyzed.
	BlobExists(id types.BlobID) (bool, error)

	// AddProvenance associates provenance with a blob.
	AddProvenance(blobID types.BlobID, prov types.Provenance) error

	// GetProvenance returns every provenance recorded for a blob.
	GetProvenance(blobID types.BlobID) ([]types.Provenance, error)

	// AddDiagnostic stores a diagnostic, deduplicated by ID.
	AddDiagnostic(d *types.Diagnostic) error

	// GetDiagnostics retrieves the diagnostics for a blob.
	GetDiagnostics(blobID types.BlobID) ([]*types.Diagnostic, error)

	// GetAllDiagnostics retrieves every diagnostic in report order.
	GetAllDiagnostics() ([]*types.Diagnostic, error)

	// Close releases the backend.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path, or ":memory:".
	Path string
}

// New creates a Store. ":memory:" selects MemoryStore, anything else a
// SQLite database file.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("path is required")
	}
	if cfg.Path == MemoryPath {
		return NewMemory(), nil
	}
	return NewSQLite(cfg.Path)
}

// compareDiagnostics orders by file, position, then check.
func compareDiagnostics(a, b *types.Diagnostic) int {
	return cmp.Or(
		cmp.Compare(a.File, b.File),
		a.Range.Start.Compare(b.Range.Start),
		cmp.Compare(a.Check, b.Check),
		cmp.Compare(a.ID, b.ID),
	)
}

func sortDiagnostics(ds []*types.Diagnostic) {
	slices.SortFunc(ds, compareDiagnostics)
}

// provenanceFromRow rebuilds a provenance from its stored kind and path.
func provenanceFromRow(kind, path string) (types.Provenance, error) {
	switch kind {
	case "file":
		return types.FileProvenance{FilePath: path}, nil
	case "stdin":
		if path == (types.StdinProvenance{}).Path() {
			path = ""
		}
		return types.StdinProvenance{Name: path}, nil
	}
	return nil, errors.Newf("unknown provenance type: %s", kind)
}
