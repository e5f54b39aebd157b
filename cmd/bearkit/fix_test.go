package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFixCmd creates a fresh fix command for testing
func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "fix [paths...]",
		RunE: runFix,
	}
	addFixFlags(cmd)
	return cmd
}

// newApplyCmd creates a fresh apply command for testing
func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "apply <patch-file>",
		Args: cobra.ExactArgs(1),
		RunE: runApply,
	}
	cmd.Flags().StringVarP(&applyDir, "directory", "C", ".", "")
	cmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "")
	return cmd
}

func TestFixCmd_InPlace(t *testing.T) {
	dir := workdir(t, map[string]string{"main.c": misIndentC, "ok.c": cleanC})
	require.NoError(t, os.Chmod(filepath.Join(dir, "main.c"), 0o600))

	_, stderr, err := run(t, newFixCmd(), "")
	require.NoError(t, err)
	assert.Contains(t, stderr, "1 files fixed, 0 left unchanged because of errors")

	assert.Equal(t, cleanC, readFile(t, "main.c"))
	assert.Equal(t, cleanC, readFile(t, "ok.c"))

	info, err := os.Stat("main.c")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "permissions kept")
}

func TestFixCmd_Spaces(t *testing.T) {
	workdir(t, map[string]string{"main.c": misIndentC})

	_, _, err := run(t, newFixCmd(), "", "--spaces", "--indent-size", "2", "main.c")
	require.NoError(t, err)
	assert.Equal(t, "int main() {\n  return 0;\n}\n", readFile(t, "main.c"))
}

func TestFixCmd_Unfixable(t *testing.T) {
	workdir(t, map[string]string{"f.c": unclosedC})

	_, stderr, err := run(t, newFixCmd(), "", "f.c")
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, stderr, "not fixed")
	assert.Contains(t, stderr, "0 files fixed, 1 left unchanged because of errors")
	assert.Equal(t, unclosedC, readFile(t, "f.c"))
}

func TestFixCmd_Stdin(t *testing.T) {
	workdir(t, nil)

	stdout, _, err := run(t, newFixCmd(), misIndentC, "--stdin-name", "x.c", "-")
	require.NoError(t, err)
	assert.Equal(t, cleanC, stdout)

	_, _, err = run(t, newFixCmd(), misIndentC, "-", "other.c")
	assert.ErrorContains(t, err, "cannot be combined")
}

func TestFixCmd_DiffThenApply(t *testing.T) {
	dir := workdir(t, map[string]string{"main.c": misIndentC, "src/util.c": misIndentC})

	diff, _, err := run(t, newFixCmd(), "", "--diff", "main.c", "src/util.c")
	require.ErrorIs(t, err, errDiagnostics, "--diff exits 1 when files would change")
	assert.Contains(t, diff, "--- a/main.c\n+++ b/main.c\n")
	assert.Contains(t, diff, "--- a/src/util.c\n+++ b/src/util.c\n")
	assert.Contains(t, diff, "-return 0;\n+\treturn 0;\n")
	assert.Equal(t, misIndentC, readFile(t, "main.c"), "--diff writes nothing")

	patchPath := filepath.Join(dir, "fix.patch")
	require.NoError(t, os.WriteFile(patchPath, []byte(diff), 0o644))

	stdout, _, err := run(t, newApplyCmd(), "", "--dry-run", patchPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "would patch main.c (+1 -1)")
	assert.Equal(t, misIndentC, readFile(t, "main.c"))

	stdout, _, err = run(t, newApplyCmd(), "", patchPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "patched main.c")
	assert.Contains(t, stdout, "patched "+filepath.Join("src", "util.c"))
	assert.Equal(t, cleanC, readFile(t, "main.c"))
	assert.Equal(t, cleanC, readFile(t, "src/util.c"))

	// Re-applying fails and leaves the files alone.
	_, _, err = run(t, newApplyCmd(), "", patchPath)
	assert.Error(t, err)
	assert.Equal(t, cleanC, readFile(t, "main.c"))
}

func TestApplyCmd_KeepsCRLF(t *testing.T) {
	dir := workdir(t, map[string]string{"win.c": "int main() {\r\nreturn 0;\r\n}\r\n"})

	diff, _, err := run(t, newFixCmd(), "", "--diff", "win.c")
	require.ErrorIs(t, err, errDiagnostics)

	patchPath := filepath.Join(dir, "win.patch")
	require.NoError(t, os.WriteFile(patchPath, []byte(diff), 0o644))

	_, _, err = run(t, newApplyCmd(), "", patchPath)
	require.NoError(t, err)
	assert.Equal(t, "int main() {\r\n\treturn 0;\r\n}\r\n", readFile(t, "win.c"))
}

func TestFixCmd_DiffClean(t *testing.T) {
	workdir(t, map[string]string{"main.c": cleanC})

	stdout, _, err := run(t, newFixCmd(), "", "--diff", "main.c")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestApplyCmd_Stdin(t *testing.T) {
	dir := workdir(t, map[string]string{"sub/main.c": misIndentC})

	diff, _, err := run(t, newFixCmd(), "", "--diff", "sub/main.c")
	require.ErrorIs(t, err, errDiagnostics)

	t.Chdir(filepath.Join(dir, "sub"))
	// The diff names sub/main.c, so resolve it from the parent.
	_, _, err = run(t, newApplyCmd(), diff, "-C", "..", "-")
	require.NoError(t, err)
	assert.Equal(t, cleanC, readFile(t, "main.c"))
}

func TestApplyCmd_Empty(t *testing.T) {
	workdir(t, nil)

	_, _, err := run(t, newApplyCmd(), "", "-")
	assert.Error(t, err)
}
