package analyzer

import (
	"slices"
	"strings"

	"github.com/bearkit/bearkit/pkg/types"
)

// builder collects the diagnostics of one report.
type builder struct {
	report  *FileReport
	lines   []string
	idx     *types.LineIndex
	context int
	enabled func(types.Check) bool
}

func (a *Analyzer) newBuilder(rep *FileReport, lines []string) *builder {
	rep.Diagnostics = []*types.Diagnostic{}
	return &builder{
		report:  rep,
		lines:   lines,
		idx:     types.NewLineIndex(types.JoinLines(lines)),
		context: a.cfg.SnippetContext,
		enabled: a.enabled,
	}
}

// add records a diagnostic. Diagnostics of disabled checks are built but
// not kept.
func (b *builder) add(check types.Check, r types.SourceRange, msg string) *types.Diagnostic {
	r.File = b.report.Path
	d := types.NewDiagnostic(check, b.report.BlobID, r, msg)
	d.Snippet = types.ExtractSnippet(b.lines, r, b.context)
	if b.enabled(check) {
		b.report.Diagnostics = append(b.report.Diagnostics, d)
	}
	return d
}

func (b *builder) finish() *FileReport {
	slices.SortFunc(b.report.Diagnostics, func(x, y *types.Diagnostic) int {
		if c := x.Range.Start.Compare(y.Range.Start); c != 0 {
			return c
		}
		return strings.Compare(string(x.Check), string(y.Check))
	})
	return b.report
}

// lineRange covers line n (1-based) without its terminator.
func (b *builder) lineRange(n int) types.SourceRange {
	if len(b.lines) == 0 {
		return types.SourceRange{
			File:  b.report.Path,
			Start: types.SourcePosition{Line: 1, Column: 1},
			End:   types.SourcePosition{Line: 1, Column: 1},
		}
	}
	n = min(max(n, 1), len(b.lines))
	start := b.idx.LineStart(n)
	body := strings.TrimRight(b.lines[n-1], "\r\n")
	return b.idx.Range(b.report.Path, start, start+len(body))
}

// markerRange covers marker at pos, or the last line when pos is nil.
func (b *builder) markerRange(pos *types.SourcePosition, marker string) types.SourceRange {
	if pos == nil {
		return b.lineRange(len(b.lines))
	}
	off := b.idx.Offset(*pos)
	end := min(off+max(len(marker), 1), len(b.idx.Text()))
	return b.idx.Range(b.report.Path, off, end)
}
