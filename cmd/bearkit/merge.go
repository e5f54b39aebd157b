package main

import (
	"fmt"

	"github.com/bearkit/bearkit/pkg/store"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	mergeOutput string
)

var mergeCmd = &cobra.Command{
	Use:   "merge <source1.db> <source2.db> [source3.db...]",
	Short: "Merge multiple bearkit databases",
	Long: `Merge multiple bearkit databases into a single output database.

This is useful for combining the results of checks run in parallel over
parts of a tree, for example one per CI shard.

Deduplication is automatic - blobs and diagnostics seen by more than one
source are only stored once in the merged database.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "merged.db", "Output database path")
}

func runMerge(cmd *cobra.Command, args []string) error {
	stats, err := store.Merge(store.MergeConfig{
		SourcePaths: args,
		DestPath:    mergeOutput,
	})
	if err != nil {
		return errors.Wrap(err, "merge failed")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Merge complete:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  Sources processed: %d\n", stats.SourcesProcessed)
	fmt.Fprintf(cmd.OutOrStdout(), "  Blobs merged: %d\n", stats.BlobsMerged)
	fmt.Fprintf(cmd.OutOrStdout(), "  Diagnostics merged: %d\n", stats.DiagnosticsMerged)
	fmt.Fprintf(cmd.OutOrStdout(), "  Provenance merged: %d\n", stats.ProvenanceMerged)
	fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", mergeOutput)

	return nil
}
