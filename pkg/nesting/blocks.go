package nesting

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/bearkit/bearkit/pkg/profile"
	"github.com/bearkit/bearkit/pkg/types"
)

// Block is a balanced opener/closer pair. Offsets are byte offsets of the
// two markers in the file.
type Block struct {
	Open        string            `json:"open"`
	Close       string            `json:"close"`
	OpenOffset  int               `json:"open_offset"`
	CloseOffset int               `json:"close_offset"`
	Depth       int               `json:"depth"`
	Range       types.SourceRange `json:"range"`
}

// Blocks returns every balanced pair of the given markers, outermost first
// and left to right within a depth. Markers inside ranges are ignored.
func Blocks(file string, lines []string, ranges types.ClassifiedRanges, pairs []profile.Marker) ([]Block, error) {
	plans, _, err := fold(PrepareLines(lines, ranges, pairs))
	if err != nil {
		return nil, err
	}

	var blocks []Block
	for _, plan := range plans {
		for _, p := range plan.Pairs {
			blocks = append(blocks, Block{
				Open:        p.Open.Marker.Open,
				Close:       p.Close,
				OpenOffset:  p.Open.Offset,
				CloseOffset: p.CloseOffset,
				Depth:       p.Open.Depth,
				Range: types.SourceRange{
					File:  file,
					Start: p.Open.Position(),
					End: types.SourcePosition{
						Line:   p.CloseLine,
						Column: p.CloseColumn + utf8.RuneCountInString(p.Close) - 1,
					},
					Offset: types.OffsetSpan{
						Start: int64(p.Open.Offset),
						End:   int64(p.CloseOffset + len(p.Close)),
					},
				},
			})
		}
	}

	slices.SortFunc(blocks, func(a, b Block) int {
		if c := cmp.Compare(a.Depth, b.Depth); c != 0 {
			return c
		}
		return cmp.Compare(a.OpenOffset, b.OpenOffset)
	})
	return blocks, nil
}
