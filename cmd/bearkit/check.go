package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bearkit/bearkit/pkg/analyzer"
	"github.com/bearkit/bearkit/pkg/enum"
	"github.com/bearkit/bearkit/pkg/store"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	checkExclude   []string
	checkStdinName string
	checkContext   int
	checkPatches   bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check files for indentation and nesting problems",
	Long: `Classify strings and comments, track nesting and report every line whose
indentation does not match its depth, plus unclosed strings, comments and
unbalanced markers.

Directories are walked recursively honoring .gitignore; "-" reads stdin.
With no paths the current directory is checked. The exit status is 1 when
any diagnostic is reported.

Checks: ` + checkNames(),
	RunE: runCheck,
}

func init() {
	addCheckFlags(checkCmd)
}

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().String("db", store.MemoryPath, "Datastore path (SQLite file, or :memory:)")
	cmd.Flags().Bool("incremental", false, "Skip files whose content is already in the datastore")
	cmd.Flags().Bool("strict", false, "Also report lines that should open an indented block")
	cmd.Flags().StringSlice("disable", nil, "Checks to turn off")
	cmd.Flags().Int("cache-size", analyzer.DefaultCacheSize, "Classification cache entries (0 disables)")
	configFlag(cmd, "db", "store.path")
	configFlag(cmd, "incremental", "store.incremental")
	configFlag(cmd, "strict", "check.strict")
	configFlag(cmd, "disable", "check.disabled")
	configFlag(cmd, "cache-size", "cache.size")
	addOutputFlags(cmd)
	addScanFlags(cmd)
	addProfileFlags(cmd)
	addIndentFlags(cmd)

	cmd.Flags().StringSliceVar(&checkExclude, "exclude", nil, "Gitignore-style patterns to skip")
	cmd.Flags().StringVar(&checkStdinName, "stdin-name", "<stdin>", "File name used to detect the language of stdin")
	cmd.Flags().IntVar(&checkContext, "context-lines", analyzer.DefaultSnippetContext, "Lines of context around each diagnostic")
	cmd.Flags().BoolVar(&checkPatches, "patches", false, "Show the fix for each diagnostic (human format)")
}

func checkNames() string {
	names := make([]string, len(types.AllChecks))
	for i, c := range types.AllChecks {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync()
	cfg := s.cfg

	if len(args) == 0 {
		args = []string{"."}
	}
	if cfg.Store.Incremental && cfg.Store.Path == store.MemoryPath {
		s.log.Warn("--incremental has no effect with an in-memory datastore")
	}

	registry, err := s.registry()
	if err != nil {
		return err
	}

	st, err := store.New(store.Config{Path: cfg.Store.Path})
	if err != nil {
		return errors.Wrap(err, "opening datastore")
	}
	defer st.Close()

	a, err := analyzer.New(analyzer.Config{
		Registry:       registry,
		Indent:         s.indentOptions(),
		Strict:         cfg.Check.Strict,
		Disabled:       cfg.DisabledChecks(),
		CacheSize:      cfg.Cache.Size,
		SnippetContext: contextFlag(checkContext),
		Workers:        cfg.Scan.Workers,
		Store:          st,
		Incremental:    cfg.Store.Incremental,
		Logger:         s.log,
	})
	if err != nil {
		return err
	}

	e, err := enum.ForPaths(enum.Config{
		IncludeHidden: cfg.Scan.IncludeHidden,
		MaxFileSize:   cfg.Scan.MaxFileSize,
		Exclude:       checkExclude,
		Workers:       cfg.Scan.Workers,
	}, args, cmd.InOrStdin(), checkStdinName)
	if err != nil {
		return err
	}

	var reports []*analyzer.FileReport
	stats, err := a.AnalyzeAll(cmd.Context(), e, func(rep *analyzer.FileReport) error {
		s.log.Info("checked", zap.String("path", rep.Path), zap.Int("diagnostics", len(rep.Diagnostics)))
		reports = append(reports, rep)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "check failed")
	}
	slices.SortFunc(reports, func(a, b *analyzer.FileReport) int {
		return strings.Compare(a.Path, b.Path)
	})

	var diags []*types.Diagnostic
	for _, rep := range reports {
		diags = append(diags, rep.Diagnostics...)
	}

	out := cmd.OutOrStdout()
	switch cfg.Output.Format {
	case "json":
		err = writeJSON(out, reports)
	case "sarif":
		err = writeSARIF(out, diags)
	default:
		h := &humanRenderer{w: out, s: newStyles(colorEnabled(cfg.Output.Color, out)), patches: checkPatches}
		for _, d := range diags {
			h.diagnostic(d)
		}
		h.summary(stats.Files, diags)
	}
	if err != nil {
		return errors.Wrap(err, "writing output")
	}

	if cfg.Output.Format != "human" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d files checked (%d cached, %d skipped), %d diagnostics\n",
			stats.Files, stats.Cached, stats.Skipped, stats.Diagnostics)
	}
	if stats.Skipped > 0 {
		s.log.Warn("some files could not be analyzed", zap.Int("skipped", stats.Skipped))
	}
	if len(diags) > 0 {
		return errDiagnostics
	}
	return nil
}

// contextFlag maps a user-facing context count, where 0 means none, onto
// the analyzer's convention, where 0 means the default.
func contextFlag(n int) int {
	if n <= 0 {
		return -1
	}
	return n
}
