package store

import (
	"path/filepath"
	"testing"

	"github.com/bearkit/bearkit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_Validation(t *testing.T) {
	_, err := Merge(MergeConfig{DestPath: "dest.db"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no source databases")

	_, err = Merge(MergeConfig{SourcePaths: []string{"source.db"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination path is required")
}

func TestMerge_Sources(t *testing.T) {
	dir := t.TempDir()
	shared := types.ComputeBlobID([]byte("shared"))

	makeSource := func(name, file string) string {
		path := filepath.Join(dir, name)
		s, err := NewSQLite(path)
		require.NoError(t, err)
		defer s.Close()

		require.NoError(t, s.AddBlob(shared, 6))
		require.NoError(t, s.AddProvenance(shared, types.FileProvenance{FilePath: file}))
		require.NoError(t, s.AddDiagnostic(testDiagnostic(types.CheckIndentation, shared, "shared.c", 2)))
		return path
	}

	one := makeSource("one.db", "one/shared.c")
	two := makeSource("two.db", "two/shared.c")
	dest := filepath.Join(dir, "dest.db")

	stats, err := Merge(MergeConfig{SourcePaths: []string{one, two}, DestPath: dest})
	require.NoError(t, err)
	assert.Equal(t, &MergeStats{
		BlobsMerged:       1,
		DiagnosticsMerged: 1,
		ProvenanceMerged:  2,
		SourcesProcessed:  2,
	}, stats)

	s, err := NewSQLite(dest)
	require.NoError(t, err)
	defer s.Close()

	provs, err := s.GetProvenance(shared)
	require.NoError(t, err)
	assert.Len(t, provs, 2)

	diags, err := s.GetAllDiagnostics()
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "shared.c", diags[0].File)
}

func TestMerge_MissingSource(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "dest.db")

	_, err := Merge(MergeConfig{SourcePaths: []string{filepath.Join(dir, "missing.db")}, DestPath: dest})
	require.Error(t, err)
	assert.NoFileExists(t, dest, "nothing is created when a source is missing")
}
