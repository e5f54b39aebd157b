package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/bearkit/bearkit/pkg/sarif"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCheckCmd creates a fresh check command for testing
func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "check [paths...]",
		RunE: runCheck,
	}
	addCheckFlags(cmd)
	return cmd
}

func TestCheckCmd_Human(t *testing.T) {
	workdir(t, map[string]string{"main.c": misIndentC})

	stdout, _, err := run(t, newCheckCmd(), "", "--color", "never", "main.c")
	require.ErrorIs(t, err, errDiagnostics)

	assert.Contains(t, stdout, "main.c:2:1: normal [indentation] line 2 is not indented to its nesting depth")
	assert.Contains(t, stdout, "1 | int main() {\n")
	assert.Contains(t, stdout, "2 | return 0;\n")
	assert.Contains(t, stdout, "  | ^^^^^^^^^\n")
	assert.Contains(t, stdout, "1 files checked, 1 diagnostics (0 major, 1 normal, 0 info)")
	assert.NotContains(t, stdout, "@@", "patches only with --patches")
}

func TestCheckCmd_Patches(t *testing.T) {
	workdir(t, map[string]string{"main.c": misIndentC})

	stdout, _, err := run(t, newCheckCmd(), "", "--color", "never", "--patches", "main.c")
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, stdout, "@@ -1,3 +1,3 @@")
	assert.Contains(t, stdout, "+\treturn 0;")
}

func TestCheckCmd_Clean(t *testing.T) {
	workdir(t, map[string]string{"main.c": cleanC, "sub/util.c": cleanC})

	stdout, _, err := run(t, newCheckCmd(), "", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 files checked, no problems found")
}

func TestCheckCmd_JSON(t *testing.T) {
	workdir(t, map[string]string{"b.c": misIndentC, "a.c": cleanC})

	stdout, stderr, err := run(t, newCheckCmd(), "", "--format", "json", "b.c", "a.c")
	require.ErrorIs(t, err, errDiagnostics)

	var reports []struct {
		Path        string              `json:"path"`
		Profile     string              `json:"profile"`
		Diagnostics []*types.Diagnostic `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "a.c", reports[0].Path, "sorted by path")
	assert.Empty(t, reports[0].Diagnostics)
	assert.Equal(t, "c", reports[1].Profile)
	require.Len(t, reports[1].Diagnostics, 1)
	assert.Equal(t, types.CheckIndentation, reports[1].Diagnostics[0].Check)
	assert.NotEmpty(t, reports[1].Diagnostics[0].Patch)

	assert.Contains(t, stderr, "2 files checked (0 cached, 0 skipped), 1 diagnostics")
}

func TestCheckCmd_SARIF(t *testing.T) {
	workdir(t, map[string]string{"f.c": unclosedC})

	stdout, _, err := run(t, newCheckCmd(), "", "--format", "sarif", "f.c")
	require.ErrorIs(t, err, errDiagnostics)

	var report sarif.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "2.1.0", report.Version)
	require.Len(t, report.Runs, 1)
	assert.Len(t, report.Runs[0].Tool.Driver.Rules, len(types.AllChecks))
	require.Len(t, report.Runs[0].Results, 1)
	assert.Equal(t, "unterminated-escape", report.Runs[0].Results[0].RuleID)
	assert.Equal(t, "error", report.Runs[0].Results[0].Level)
}

func TestCheckCmd_Disable(t *testing.T) {
	workdir(t, map[string]string{"main.c": misIndentC})

	_, _, err := run(t, newCheckCmd(), "", "--disable", "indentation", "main.c")
	assert.NoError(t, err)
}

func TestCheckCmd_InvalidFormat(t *testing.T) {
	workdir(t, map[string]string{"main.c": cleanC})

	_, _, err := run(t, newCheckCmd(), "", "--format", "xml", "main.c")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errDiagnostics)
}

func TestCheckCmd_Stdin(t *testing.T) {
	workdir(t, nil)

	stdout, _, err := run(t, newCheckCmd(), misIndentC, "--color", "never", "--stdin-name", "piped.c", "-")
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, stdout, "piped.c:2:1: normal [indentation]")
}

func TestCheckCmd_UnknownProfile(t *testing.T) {
	workdir(t, map[string]string{"notes.txt": "hello\n"})

	stdout, _, err := run(t, newCheckCmd(), "", "--color", "never", "notes.txt")
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, stdout, "info [unknown-profile] no language profile matches this file")
}

func TestCheckCmd_MissingPath(t *testing.T) {
	workdir(t, nil)

	_, _, err := run(t, newCheckCmd(), "", "missing.c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot analyze missing.c")
}

func TestCheckCmd_DatastoreAndReport(t *testing.T) {
	dir := workdir(t, map[string]string{"main.c": misIndentC, "copy/main.c": misIndentC})
	dbPath := filepath.Join(dir, "results.db")

	_, _, err := run(t, newCheckCmd(), "", "--db", dbPath, "--workers", "1", "main.c", "copy/main.c")
	require.ErrorIs(t, err, errDiagnostics)

	stdout, _, err := run(t, newReportCmd(), "", "--db", dbPath, "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, stdout, "=== bearkit report ===")
	assert.Contains(t, stdout, "Datastore: "+dbPath)
	assert.Contains(t, stdout, "Total diagnostics: 1", "identical content is stored once")
	assert.Contains(t, stdout, "also in")

	stdout, _, err = run(t, newReportCmd(), "", "--db", dbPath, "--format", "json")
	require.NoError(t, err)
	var diags []*types.Diagnostic
	require.NoError(t, json.Unmarshal([]byte(stdout), &diags))
	require.Len(t, diags, 1)
	assert.Equal(t, types.CheckIndentation, diags[0].Check)

	// A second incremental run serves the blob from the datastore.
	_, stderr, err := run(t, newCheckCmd(), "", "--db", dbPath, "--incremental", "--format", "json", "main.c")
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, stderr, "1 files checked (1 cached, 0 skipped), 1 diagnostics")
}

func TestContextFlag(t *testing.T) {
	assert.Equal(t, -1, contextFlag(0))
	assert.Equal(t, -1, contextFlag(-3))
	assert.Equal(t, 4, contextFlag(4))
}
