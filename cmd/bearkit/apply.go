package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bearkit/bearkit/pkg/patch"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	applyDir    string
	applyDryRun bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <patch-file>",
	Short: "Apply a saved correction patch",
	Long: `Apply a unified diff produced by "bearkit fix --diff", or the patch of a
diagnostic from "bearkit check --format json", to the files it names.

Every file is checked before any is written: if one hunk does not apply,
nothing changes. "-" reads the patch from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyDir, "directory", "C", ".", "Resolve file names relative to this directory")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Check that the patch applies without writing")
}

func runApply(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return errors.Wrap(err, "reading patch")
	}

	parts, err := patch.Split(string(data))
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return errors.New("patch contains no file diffs")
	}

	type result struct {
		path  string
		lines []string
		mode  os.FileMode
		stat  string
	}
	results := make([]result, 0, len(parts))
	for _, p := range parts {
		path := filepath.FromSlash(p.Name)
		if !filepath.IsAbs(path) {
			path = filepath.Join(applyDir, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			return errors.Wrapf(err, "patching %s", p.Name)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "patching %s", p.Name)
		}
		lines, err := patch.Apply(types.SplitLines(string(content)), p.Text)
		if err != nil {
			return errors.Wrapf(err, "patching %s", p.Name)
		}
		st, err := patch.Stat(p.Text)
		if err != nil {
			return errors.Wrapf(err, "patching %s", p.Name)
		}
		results = append(results, result{
			path:  path,
			lines: lines,
			mode:  info.Mode().Perm(),
			stat:  fmt.Sprintf("+%d -%d", st.Added+st.Changed, st.Deleted+st.Changed),
		})
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		if applyDryRun {
			fmt.Fprintf(out, "would patch %s (%s)\n", r.path, r.stat)
			continue
		}
		if err := os.WriteFile(r.path, []byte(types.JoinLines(r.lines)), r.mode); err != nil {
			return errors.Wrapf(err, "writing %s", r.path)
		}
		fmt.Fprintf(out, "patched %s (%s)\n", r.path, r.stat)
	}
	return nil
}
