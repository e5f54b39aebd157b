package enum

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bearkit/bearkit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileEnumerator(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		".hidden.c": "x",
		"a.c":       "y",
		"bin.o":     "\x00",
	})

	e := NewFileEnumerator(0,
		filepath.Join(tmpDir, ".hidden.c"),
		filepath.Join(tmpDir, "a.c"),
		filepath.Join(tmpDir, "bin.o"),
	)
	assert.Equal(t, []string{".hidden.c", "a.c"}, collect(t, e, tmpDir))
}

func TestFileEnumerator_Missing(t *testing.T) {
	e := NewFileEnumerator(1, filepath.Join(t.TempDir(), "gone.c"))
	err := e.Enumerate(context.Background(), func([]byte, types.BlobID, types.Provenance) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.c")
}

func TestReaderEnumerator(t *testing.T) {
	var got []types.Provenance
	e := NewReaderEnumerator(strings.NewReader("int x;\n"), "main.c")
	err := e.Enumerate(context.Background(), func(content []byte, blobID types.BlobID, prov types.Provenance) error {
		assert.Equal(t, "int x;\n", string(content))
		got = append(got, prov)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []types.Provenance{types.StdinProvenance{Name: "main.c"}}, got)
}

func TestForPaths(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"dir/a.c": "a",
		"dir/b.c": "b",
		"c.c":     "a", // same content as dir/a.c, different path
	})
	dir := filepath.Join(tmpDir, "dir")
	file := filepath.Join(tmpDir, "c.c")

	t.Run("single directory", func(t *testing.T) {
		e, err := ForPaths(Config{}, []string{dir}, nil, "")
		require.NoError(t, err)
		assert.IsType(t, &FilesystemEnumerator{}, e)
		assert.Equal(t, []string{"dir/a.c", "dir/b.c"}, collect(t, e, tmpDir))
	})

	t.Run("mixed and repeated", func(t *testing.T) {
		e, err := ForPaths(Config{}, []string{dir, file, filepath.Join(dir, "a.c")}, nil, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"c.c", "dir/a.c", "dir/b.c"}, collect(t, e, tmpDir))
	})

	t.Run("stdin", func(t *testing.T) {
		e, err := ForPaths(Config{}, []string{"-"}, strings.NewReader("x"), "")
		require.NoError(t, err)
		assert.Equal(t, []string{"<stdin>"}, collect(t, e, ""))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := ForPaths(Config{}, []string{filepath.Join(tmpDir, "nope")}, nil, "")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
