package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bearkit/bearkit/pkg/enum"
	"github.com/bearkit/bearkit/pkg/store"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestAnalyzeAll(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ok.c":     "int x;\n",
		"bad.c":    "int f() {\nreturn 1;\n}\n",
		"copy.c":   "int f() {\nreturn 1;\n}\n",
		"open.go":  "func f() {\n",
		"notes.zz": "hello world\n",
	})
	st := store.NewMemory()
	a := newAnalyzer(t, Config{Store: st, Workers: 3})

	var paths []string
	stats, err := a.AnalyzeAll(context.Background(), enum.NewFilesystemEnumerator(enum.Config{Root: dir}),
		func(rep *FileReport) error {
			paths = append(paths, filepath.Base(rep.Path))
			return nil
		})
	require.NoError(t, err)

	slices.Sort(paths)
	assert.Equal(t, []string{"bad.c", "copy.c", "notes.zz", "ok.c", "open.go"}, paths)
	assert.Equal(t, Stats{Files: 5, Diagnostics: 4}, stats)

	all, err := st.GetAllDiagnostics()
	require.NoError(t, err)
	got := map[types.Check]int{}
	for _, d := range all {
		got[d.Check]++
	}
	assert.Equal(t, map[types.Check]int{
		types.CheckIndentation:     1, // bad.c and copy.c share a blob and so an ID
		types.CheckUnmatchedIndent: 1,
		types.CheckUnknownProfile:  1,
	}, got)

	bad := types.ComputeBlobID([]byte("int f() {\nreturn 1;\n}\n"))
	provs, err := st.GetProvenance(bad)
	require.NoError(t, err)
	assert.Len(t, provs, 2)
}

func TestAnalyzeAll_Incremental(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bad.c": "int f() {\nreturn 1;\n}\n"})
	st := store.NewMemory()
	a := newAnalyzer(t, Config{Store: st, Incremental: true})
	e := enum.NewFilesystemEnumerator(enum.Config{Root: dir})

	stats, err := a.AnalyzeAll(context.Background(), e, nil)
	require.NoError(t, err)
	assert.Equal(t, Stats{Files: 1, Diagnostics: 1}, stats)

	var reports []*FileReport
	stats, err = a.AnalyzeAll(context.Background(), e, func(rep *FileReport) error {
		reports = append(reports, rep)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, Stats{Files: 1, Cached: 1, Diagnostics: 1}, stats)
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Cached)
	assert.Equal(t, types.CheckIndentation, reports[0].Diagnostics[0].Check)
}

func TestAnalyzeAll_SinkError(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.c": "int a;\n", "b.c": "int b;\n"})
	a := newAnalyzer(t, Config{Workers: 1})

	_, err := a.AnalyzeAll(context.Background(), enum.NewFilesystemEnumerator(enum.Config{Root: dir}),
		func(*FileReport) error { return assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAnalyzeAll_Cancelled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.c": "int a;\n"})
	a := newAnalyzer(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.AnalyzeAll(ctx, enum.NewFilesystemEnumerator(enum.Config{Root: dir}), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileReport_Changed(t *testing.T) {
	r := &FileReport{Original: []string{"a\n"}}
	assert.False(t, r.Changed())
	r.Corrected = []string{"a\n"}
	assert.False(t, r.Changed())
	r.Corrected = []string{"\ta\n"}
	assert.True(t, r.Changed())
}
