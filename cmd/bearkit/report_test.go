package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/bearkit/bearkit/pkg/store"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newReportCmd creates a fresh report command for testing
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "report",
		Args: cobra.NoArgs,
		RunE: runReport,
	}
	addReportFlags(cmd)
	return cmd
}

func testDiagnostic(path string, check types.Check, sev types.Severity, line int) *types.Diagnostic {
	blob := types.ComputeBlobID([]byte(path))
	r := types.SourceRange{
		File:  path,
		Start: types.SourcePosition{Line: line, Column: 1},
		End:   types.SourcePosition{Line: line, Column: 3},
	}
	d := types.NewDiagnostic(check, blob, r, string(check)+" problem")
	d.Severity = sev
	d.Snippet = types.Snippet{Matching: []string{"abc"}, Line: line}
	return d
}

// seedStore writes diagnostics, with their blobs and provenance, to a new
// SQLite datastore.
func seedStore(t *testing.T, path string, diags ...*types.Diagnostic) {
	t.Helper()
	s, err := store.NewSQLite(path)
	require.NoError(t, err)
	for _, d := range diags {
		require.NoError(t, s.AddBlob(d.BlobID, 3))
		require.NoError(t, s.AddProvenance(d.BlobID, types.FileProvenance{FilePath: d.File}))
		require.NoError(t, s.AddDiagnostic(d))
	}
	require.NoError(t, s.Close())
}

func TestReportCmd_Human(t *testing.T) {
	dir := workdir(t, nil)
	dbPath := filepath.Join(dir, "results.db")
	seedStore(t, dbPath,
		testDiagnostic("a.c", types.CheckIndentation, types.SeverityNormal, 2),
		testDiagnostic("b.c", types.CheckUnmatchedIndent, types.SeverityMajor, 5),
	)

	stdout, _, err := run(t, newReportCmd(), "", "--db", dbPath, "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, stdout, "=== bearkit report ===")
	assert.Contains(t, stdout, "Total diagnostics: 2")
	assert.Contains(t, stdout, "a.c:2:1: normal [indentation] indentation problem")
	assert.Contains(t, stdout, "b.c:5:1: major [unmatched-indent] unmatched-indent problem")
	assert.NotContains(t, stdout, "also in")
}

func TestReportCmd_Filters(t *testing.T) {
	dir := workdir(t, nil)
	dbPath := filepath.Join(dir, "results.db")
	seedStore(t, dbPath,
		testDiagnostic("a.c", types.CheckIndentation, types.SeverityNormal, 2),
		testDiagnostic("b.c", types.CheckUnmatchedIndent, types.SeverityMajor, 5),
		testDiagnostic("c.txt", types.CheckUnknownProfile, types.SeverityInfo, 1),
	)

	tests := []struct {
		name string
		args []string
		want []types.Check
	}{
		{name: "all", want: []types.Check{types.CheckIndentation, types.CheckUnmatchedIndent, types.CheckUnknownProfile}},
		{name: "min severity", args: []string{"--min-severity", "normal"}, want: []types.Check{types.CheckIndentation, types.CheckUnmatchedIndent}},
		{name: "check", args: []string{"--check", "unknown-profile"}, want: []types.Check{types.CheckUnknownProfile}},
		{name: "both", args: []string{"--check", "indentation", "--min-severity", "major"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--db", dbPath, "--format", "json"}, tt.args...)
			stdout, _, err := run(t, newReportCmd(), "", args...)
			require.NoError(t, err)

			var diags []*types.Diagnostic
			require.NoError(t, json.Unmarshal([]byte(stdout), &diags))
			var got []types.Check
			for _, d := range diags {
				got = append(got, d.Check)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestReportCmd_InvalidSeverity(t *testing.T) {
	dir := workdir(t, nil)
	dbPath := filepath.Join(dir, "results.db")
	seedStore(t, dbPath)

	_, _, err := run(t, newReportCmd(), "", "--db", dbPath, "--min-severity", "fatal")
	assert.ErrorContains(t, err, `unknown severity "fatal"`)
}

func TestReportCmd_MemoryDatastore(t *testing.T) {
	workdir(t, nil)

	_, _, err := run(t, newReportCmd(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in-memory")
	assert.Contains(t, errors.GetAllHints(err), "pass --db or set store.path in bearkit.toml")
}

func TestReportCmd_NonexistentDatastore(t *testing.T) {
	dir := workdir(t, nil)

	_, _, err := run(t, newReportCmd(), "", "--db", filepath.Join(dir, "missing.db"))
	assert.ErrorContains(t, err, "datastore not found")
}

func TestReportCmd_ConfigFile(t *testing.T) {
	dir := workdir(t, nil)
	seedStore(t, filepath.Join(dir, "ci.db"),
		testDiagnostic("a.c", types.CheckIndentation, types.SeverityNormal, 2))
	writeConfig(t, dir, "[store]\npath = \"ci.db\"\n\n[output]\nformat = \"json\"\n")

	stdout, _, err := run(t, newReportCmd(), "")
	require.NoError(t, err)
	var diags []*types.Diagnostic
	require.NoError(t, json.Unmarshal([]byte(stdout), &diags))
	assert.Len(t, diags, 1)
}
