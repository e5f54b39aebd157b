package store

import (
	"path/filepath"
	"testing"

	"github.com/bearkit/bearkit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

func testDiagnostic(check types.Check, blob types.BlobID, file string, line int) *types.Diagnostic {
	r := types.SourceRange{
		File:   file,
		Start:  types.SourcePosition{Line: line, Column: 1},
		End:    types.SourcePosition{Line: line, Column: 4},
		Offset: types.OffsetSpan{Start: int64(line * 10), End: int64(line*10 + 3)},
	}
	d := types.NewDiagnostic(check, blob, r, "msg "+string(check))
	d.Snippet = types.Snippet{Matching: []string{"  x;"}, Line: line}
	return d
}

// backends returns a fresh store of each kind.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "bearkit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestNew(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	s, err := New(Config{Path: MemoryPath})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(Config{Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &SQLiteStore{}, s)
}

func TestStore_Blobs(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := types.ComputeBlobID([]byte("int x;\n"))

			exists, err := s.BlobExists(id)
			require.NoError(t, err)
			assert.False(t, exists)

			require.NoError(t, s.AddBlob(id, 7))
			require.NoError(t, s.AddBlob(id, 7), "adding twice is a no-op")

			exists, err = s.BlobExists(id)
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestStore_Provenance(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := types.ComputeBlobID([]byte("a"))
			require.NoError(t, s.AddBlob(id, 1))

			provs, err := s.GetProvenance(id)
			require.NoError(t, err)
			assert.Empty(t, provs)

			require.NoError(t, s.AddProvenance(id, types.FileProvenance{FilePath: "a.c"}))
			require.NoError(t, s.AddProvenance(id, types.FileProvenance{FilePath: "a.c"}))
			require.NoError(t, s.AddProvenance(id, types.FileProvenance{FilePath: "copy/a.c"}))
			require.NoError(t, s.AddProvenance(id, types.StdinProvenance{}))

			provs, err = s.GetProvenance(id)
			require.NoError(t, err)
			assert.Equal(t, []types.Provenance{
				types.FileProvenance{FilePath: "a.c"},
				types.FileProvenance{FilePath: "copy/a.c"},
				types.StdinProvenance{},
			}, provs)
		})
	}
}

func TestStore_Diagnostics(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a := types.ComputeBlobID([]byte("a"))
			b := types.ComputeBlobID([]byte("b"))
			require.NoError(t, s.AddBlob(a, 1))
			require.NoError(t, s.AddBlob(b, 1))

			d1 := testDiagnostic(types.CheckIndentation, a, "a.c", 3)
			d2 := testDiagnostic(types.CheckUnmatchedIndent, a, "a.c", 1)
			d3 := testDiagnostic(types.CheckIndentation, b, "b.c", 2)
			d3.Patch = "--- a/b.c\n+++ b/b.c\n"

			for _, d := range []*types.Diagnostic{d1, d2, d3, d1} {
				require.NoError(t, s.AddDiagnostic(d))
			}

			got, err := s.GetDiagnostics(a)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, d2.ID, got[0].ID, "sorted by line")
			assert.Equal(t, d1.ID, got[1].ID)

			all, err := s.GetAllDiagnostics()
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "b.c", all[2].File)

			last := all[2]
			assert.Equal(t, d3.Check, last.Check)
			assert.Equal(t, types.SeverityNormal, last.Severity)
			assert.Equal(t, d3.Range, last.Range)
			assert.Equal(t, d3.Snippet, last.Snippet)
			assert.Equal(t, d3.Patch, last.Patch)
			assert.Equal(t, b, last.BlobID)

			none, err := s.GetDiagnostics(types.ComputeBlobID([]byte("none")))
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bearkit.db")
	id := types.ComputeBlobID([]byte("x"))

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.AddBlob(id, 1))
	require.NoError(t, s.AddDiagnostic(testDiagnostic(types.CheckExpectedIndent, id, "x.py", 1)))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	exists, err := s.BlobExists(id)
	require.NoError(t, err)
	assert.True(t, exists)

	diags, err := s.GetAllDiagnostics()
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, types.CheckExpectedIndent, diags[0].Check)
}

func TestSQLite_SchemaVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bearkit.db")
	s, err := NewSQLite(path)
	require.NoError(t, err)
	_, err = s.db.Exec("UPDATE schema_version SET version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = NewSQLite(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version 99")
}
