package explore

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"

	"github.com/bearkit/bearkit/pkg/store"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
)

// exploreData holds everything loaded from the datastore.
type exploreData struct {
	store store.Store
	files []*fileRow
	total int // diagnostics across all files
}

// fileRow is the view model of one analyzed blob and its diagnostics.
type fileRow struct {
	Path        string
	BlobID      types.BlobID
	Extension   string
	Diagnostics []*types.Diagnostic
	Counts      [types.SeverityMajor + 1]int // indexed by severity
	OtherPaths  []string                     // identical content seen elsewhere
}

// worst returns the highest severity among the file's diagnostics.
func (f *fileRow) worst() types.Severity {
	for s := types.SeverityMajor; s > types.SeverityInfo; s-- {
		if f.Counts[s] > 0 {
			return s
		}
	}
	return types.SeverityInfo
}

// checks returns the distinct checks reported for the file.
func (f *fileRow) checks() []types.Check {
	var out []types.Check
	for _, d := range f.Diagnostics {
		if !slices.Contains(out, d.Check) {
			out = append(out, d.Check)
		}
	}
	return out
}

// loadData opens a datastore written by `bearkit check --db` and groups
// its diagnostics by file.
func loadData(storePath string) (*exploreData, error) {
	if storePath == store.MemoryPath {
		return nil, errors.New("cannot explore an in-memory datastore")
	}
	if _, err := os.Stat(storePath); err != nil {
		return nil, errors.Wrapf(err, "datastore not found: %s", storePath)
	}

	s, err := store.New(store.Config{Path: storePath})
	if err != nil {
		return nil, errors.Wrap(err, "opening datastore")
	}

	diags, err := s.GetAllDiagnostics()
	if err != nil {
		s.Close()
		return nil, errors.Wrap(err, "retrieving diagnostics")
	}

	files, err := buildFileRows(diags, s)
	if err != nil {
		s.Close()
		return nil, err
	}
	return &exploreData{store: s, files: files, total: len(diags)}, nil
}

// buildFileRows groups diagnostics by blob. s may be nil, in which case
// no other paths are looked up.
func buildFileRows(diags []*types.Diagnostic, s store.Store) ([]*fileRow, error) {
	byBlob := make(map[types.BlobID]*fileRow)
	var rows []*fileRow
	for _, d := range diags {
		row, ok := byBlob[d.BlobID]
		if !ok {
			row = &fileRow{
				Path:      d.File,
				BlobID:    d.BlobID,
				Extension: extensionOf(d.File),
			}
			byBlob[d.BlobID] = row
			rows = append(rows, row)
		}
		row.Diagnostics = append(row.Diagnostics, d)
		if d.Severity >= types.SeverityInfo && d.Severity <= types.SeverityMajor {
			row.Counts[d.Severity]++
		}
	}

	for _, row := range rows {
		slices.SortFunc(row.Diagnostics, func(a, b *types.Diagnostic) int {
			return cmp.Or(a.Range.Start.Compare(b.Range.Start), cmp.Compare(a.Check, b.Check))
		})
		if s == nil {
			continue
		}
		provs, err := s.GetProvenance(row.BlobID)
		if err != nil {
			return nil, errors.Wrapf(err, "retrieving provenance of %s", row.Path)
		}
		for _, p := range provs {
			if p.Path() != row.Path {
				row.OtherPaths = append(row.OtherPaths, p.Path())
			}
		}
	}
	return rows, nil
}

func extensionOf(path string) string {
	if ext := filepath.Ext(path); ext != "" {
		return ext
	}
	return "(none)"
}

func (d *exploreData) close() error {
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
