package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/bearkit/bearkit/pkg/analyzer"
	"github.com/bearkit/bearkit/pkg/enum"
	"github.com/bearkit/bearkit/pkg/patch"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixDiff      bool
	fixContext   int
	fixStdinName string
	fixExclude   []string
)

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Rewrite files with corrected indentation",
	Long: `Re-indent files in place so every line sits at its nesting depth.

Files with an unclosed string or comment, or with unbalanced markers, are
left untouched and reported. With --diff nothing is written; a unified
diff of the corrections is printed instead and the exit status is 1 when
any file would change. "-" reads stdin and writes the result to stdout.`,
	RunE: runFix,
}

func init() {
	addFixFlags(fixCmd)
}

func addFixFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&fixDiff, "diff", "d", false, "Print a unified diff instead of rewriting files")
	cmd.Flags().IntVarP(&fixContext, "unified", "U", patch.DefaultContext, "Lines of context in --diff output")
	cmd.Flags().StringVar(&fixStdinName, "stdin-name", "<stdin>", "File name used to detect the language of stdin")
	cmd.Flags().StringSliceVar(&fixExclude, "exclude", nil, "Gitignore-style patterns to skip")
	addScanFlags(cmd)
	addProfileFlags(cmd)
	addIndentFlags(cmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	registry, err := s.registry()
	if err != nil {
		return err
	}
	a, err := analyzer.New(analyzer.Config{
		Registry:  registry,
		Indent:    s.indentOptions(),
		CacheSize: s.cfg.Cache.Size,
		Workers:   s.cfg.Scan.Workers,
		Logger:    s.log,
	})
	if err != nil {
		return err
	}

	if len(args) == 1 && args[0] == "-" {
		return fixStdin(cmd, a)
	}
	if len(args) == 0 {
		args = []string{"."}
	}
	if slices.Contains(args, "-") {
		return errors.New(`"-" cannot be combined with other paths`)
	}

	e, err := enum.ForPaths(enum.Config{
		IncludeHidden: s.cfg.Scan.IncludeHidden,
		MaxFileSize:   s.cfg.Scan.MaxFileSize,
		Exclude:       fixExclude,
		Workers:       s.cfg.Scan.Workers,
	}, args, nil, "")
	if err != nil {
		return err
	}

	var (
		changed []*analyzer.FileReport
		unfixed []*types.Diagnostic
	)
	stderr := cmd.ErrOrStderr()
	_, err = a.AnalyzeAll(cmd.Context(), e, func(rep *analyzer.FileReport) error {
		if rep.Corrected == nil {
			unfixed = append(unfixed, blocking(rep)...)
			return nil
		}
		if rep.Changed() {
			changed = append(changed, rep)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "fix failed")
	}
	slices.SortFunc(changed, func(a, b *analyzer.FileReport) int {
		return strings.Compare(a.Path, b.Path)
	})

	for _, d := range unfixed {
		fmt.Fprintf(stderr, "%s:%s: not fixed: %s\n", d.File, d.Range.Start, d.Message)
	}

	if fixDiff {
		for _, rep := range changed {
			if err := writeDiff(cmd.OutOrStdout(), rep); err != nil {
				return err
			}
		}
		if len(changed) > 0 {
			return errDiagnostics
		}
		return nil
	}

	for _, rep := range changed {
		if err := rewrite(rep); err != nil {
			return err
		}
		s.log.Info("fixed", zap.String("path", rep.Path))
	}
	fmt.Fprintf(stderr, "%d files fixed, %d left unchanged because of errors\n", len(changed), len(unfixed))
	if len(unfixed) > 0 {
		return errDiagnostics
	}
	return nil
}

func fixStdin(cmd *cobra.Command, a *analyzer.Analyzer) error {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return errors.Wrap(err, "reading stdin")
	}
	rep, err := a.AnalyzeFile(fixStdinName, content)
	if err != nil {
		return err
	}
	if rep.Corrected == nil {
		for _, d := range blocking(rep) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s:%s: not fixed: %s\n", d.File, d.Range.Start, d.Message)
		}
		return errDiagnostics
	}
	if fixDiff {
		if err := writeDiff(cmd.OutOrStdout(), rep); err != nil {
			return err
		}
		if rep.Changed() {
			return errDiagnostics
		}
		return nil
	}
	_, err = io.WriteString(cmd.OutOrStdout(), types.JoinLines(rep.Corrected))
	return err
}

// blocking returns the diagnostics that kept rep from being corrected.
func blocking(rep *analyzer.FileReport) []*types.Diagnostic {
	var out []*types.Diagnostic
	for _, d := range rep.Diagnostics {
		if d.Severity == types.SeverityMajor || d.Check == types.CheckUnknownProfile {
			out = append(out, d)
		}
	}
	return out
}

func writeDiff(w io.Writer, rep *analyzer.FileReport) error {
	text, err := patch.Unified(rep.Path, rep.Original, rep.Corrected, max(fixContext, 0))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// rewrite replaces the file's content, keeping its permissions.
func rewrite(rep *analyzer.FileReport) error {
	info, err := os.Stat(rep.Path)
	if err != nil {
		return errors.Wrapf(err, "rewriting %s", rep.Path)
	}
	if err := os.WriteFile(rep.Path, []byte(types.JoinLines(rep.Corrected)), info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "rewriting %s", rep.Path)
	}
	return nil
}
