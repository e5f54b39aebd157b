package main

import (
	"github.com/bearkit/bearkit/pkg/nesting"
	"github.com/bearkit/bearkit/pkg/profile"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	blocksProfile string
	blocksKind    string
)

var blocksCmd = &cobra.Command{
	Use:   "blocks <file>",
	Short: "Print the balanced blocks of a file",
	Long: `Print, as JSON, every balanced opener/closer pair of a file, outermost
first. Strings and comments are skipped, so a brace inside a literal never
opens a block.

--kind limits the output to indent pairs (braces, keyword blocks) or
bracket pairs (parentheses and the like).`,
	Args: cobra.ExactArgs(1),
	RunE: runBlocks,
}

func init() {
	blocksCmd.Flags().StringVarP(&blocksProfile, "profile", "p", "", "Language profile ID or alias")
	blocksCmd.Flags().StringVar(&blocksKind, "kind", "all", "Block kind: indent, bracket, all")
	addProfileFlags(blocksCmd)
}

// blockOutput is one block as printed by blocks.
type blockOutput struct {
	Kind string `json:"kind"`
	nesting.Block
}

func runBlocks(cmd *cobra.Command, args []string) error {
	var want []profile.MarkerKind
	switch blocksKind {
	case "all":
		want = []profile.MarkerKind{profile.Indent, profile.Bracket}
	case "indent":
		want = []profile.MarkerKind{profile.Indent}
	case "bracket":
		want = []profile.MarkerKind{profile.Bracket}
	default:
		return errors.Newf("unknown block kind %q", blocksKind)
	}

	in, err := loadInput(cmd, args[0], blocksProfile)
	if err != nil {
		return err
	}
	ranges, err := in.analyzer.Classify(in.name, in.lines, in.profile)
	if err != nil {
		return err
	}
	blocks, err := nesting.Blocks(in.name, in.lines, ranges, in.profile.StructuralMarkers())
	if err != nil {
		return err
	}

	kinds := make(map[[2]string]profile.MarkerKind)
	for _, m := range in.profile.StructuralMarkers() {
		kinds[[2]string{m.Open, m.Close}] = m.Kind
	}
	selected := make(map[profile.MarkerKind]bool, len(want))
	for _, k := range want {
		selected[k] = true
	}

	out := []blockOutput{}
	for _, b := range blocks {
		k := kinds[[2]string{b.Open, b.Close}]
		if selected[k] {
			out = append(out, blockOutput{Kind: k.String(), Block: b})
		}
	}
	return writeJSON(cmd.OutOrStdout(), out)
}
