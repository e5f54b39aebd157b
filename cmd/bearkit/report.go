package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/bearkit/bearkit/pkg/store"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	reportChecks      []string
	reportMinSeverity string
	reportPatches     bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from stored check results",
	Long: `Read diagnostics from a datastore written by "bearkit check --db" and print
them again, optionally filtered by check or severity.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	addReportFlags(reportCmd)
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("db", store.MemoryPath, "Datastore path")
	configFlag(cmd, "db", "store.path")
	addOutputFlags(cmd)
	cmd.Flags().StringSliceVar(&reportChecks, "check", nil, "Only report these checks")
	cmd.Flags().StringVar(&reportMinSeverity, "min-severity", "info", "Only report diagnostics at least this severe: info, normal, major")
	cmd.Flags().BoolVar(&reportPatches, "patches", false, "Show the fix for each diagnostic (human format)")
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync()
	cfg := s.cfg

	storePath := cfg.Store.Path
	if storePath == store.MemoryPath {
		return errors.WithHint(
			errors.New("cannot report from an in-memory datastore"),
			"pass --db or set store.path in bearkit.toml",
		)
	}
	if _, err := os.Stat(storePath); err != nil {
		return errors.Wrapf(err, "datastore not found: %s", storePath)
	}

	minSeverity, err := types.ParseSeverity(reportMinSeverity)
	if err != nil {
		return err
	}

	st, err := store.New(store.Config{Path: storePath})
	if err != nil {
		return errors.Wrap(err, "opening datastore")
	}
	defer st.Close()

	all, err := st.GetAllDiagnostics()
	if err != nil {
		return errors.Wrap(err, "retrieving diagnostics")
	}
	diags := slices.DeleteFunc(all, func(d *types.Diagnostic) bool {
		if d.Severity < minSeverity {
			return true
		}
		return len(reportChecks) > 0 && !slices.Contains(reportChecks, string(d.Check))
	})

	out := cmd.OutOrStdout()
	switch cfg.Output.Format {
	case "json":
		return writeJSON(out, diags)
	case "sarif":
		return writeSARIF(out, diags)
	}

	sty := newStyles(colorEnabled(cfg.Output.Color, out))
	fmt.Fprintf(out, "%s\n", sty.heading.Sprint("=== bearkit report ==="))
	fmt.Fprintf(out, "Datastore: %s\n", storePath)
	fmt.Fprintf(out, "Total diagnostics: %d\n\n", len(diags))

	h := &humanRenderer{w: out, s: sty, patches: reportPatches}
	files := make(map[types.BlobID]bool)
	for _, d := range diags {
		h.diagnostic(d)
		if files[d.BlobID] {
			continue
		}
		files[d.BlobID] = true

		// Identical content at other paths shares the diagnostics.
		provs, err := st.GetProvenance(d.BlobID)
		if err != nil {
			return errors.Wrap(err, "retrieving provenance")
		}
		for _, p := range provs {
			if p.Path() != d.File {
				fmt.Fprintf(out, "  %s %s\n", sty.gutter.Sprint("also in"), p.Path())
			}
		}
	}
	return nil
}
