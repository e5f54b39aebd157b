package explore

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/bearkit/bearkit/pkg/types"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

type sortField int

const (
	sortByPath sortField = iota
	sortByDiagnostics
	sortBySeverity
	sortFieldCount
)

var sortFieldNames = [sortFieldCount]string{"Path", "Diagnostics", "Severity"}

// filesPane is the top-right table of files with diagnostics.
type filesPane struct {
	rows    []*fileRow // rows passing the filters
	total   int
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
	sortBy  sortField
	desc    bool
}

func newFilesPane(rows []*fileRow) filesPane {
	fp := filesPane{rows: slices.Clone(rows), total: len(rows)}
	fp.sort()
	return fp
}

func (fp *filesPane) setRows(rows []*fileRow) {
	fp.rows = slices.Clone(rows)
	fp.sort()
	fp.cursor = max(0, min(fp.cursor, len(fp.rows)-1))
	fp.offset = scrollTo(fp.cursor, fp.offset, fp.visibleRows())
}

func (fp filesPane) selected() *fileRow {
	if fp.cursor < 0 || fp.cursor >= len(fp.rows) {
		return nil
	}
	return fp.rows[fp.cursor]
}

func (fp filesPane) Update(msg tea.Msg) (filesPane, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || !fp.focused {
		return fp, nil
	}
	switch {
	case key.Matches(km, defaultKeys.Up):
		fp.move(-1)
	case key.Matches(km, defaultKeys.Down):
		fp.move(1)
	case key.Matches(km, defaultKeys.Home):
		fp.move(-len(fp.rows))
	case key.Matches(km, defaultKeys.End):
		fp.move(len(fp.rows))
	case key.Matches(km, defaultKeys.PageDown):
		fp.move(fp.visibleRows())
	case key.Matches(km, defaultKeys.PageUp):
		fp.move(-fp.visibleRows())
	case key.Matches(km, defaultKeys.SortNext):
		fp.sortBy = (fp.sortBy + 1) % sortFieldCount
		fp.sort()
	case key.Matches(km, defaultKeys.SortReverse):
		fp.desc = !fp.desc
		fp.sort()
	}
	return fp, nil
}

func (fp *filesPane) move(delta int) {
	fp.cursor = max(0, min(fp.cursor+delta, len(fp.rows)-1))
	fp.offset = scrollTo(fp.cursor, fp.offset, fp.visibleRows())
}

// sort orders rows by the current field, breaking ties by path.
func (fp *filesPane) sort() {
	by := func(a, b *fileRow) int { return 0 }
	switch fp.sortBy {
	case sortByDiagnostics:
		by = func(a, b *fileRow) int { return cmp.Compare(len(a.Diagnostics), len(b.Diagnostics)) }
	case sortBySeverity:
		by = func(a, b *fileRow) int {
			return cmp.Or(cmp.Compare(a.worst(), b.worst()), cmp.Compare(a.Counts[a.worst()], b.Counts[b.worst()]))
		}
	}
	slices.SortStableFunc(fp.rows, func(a, b *fileRow) int {
		c := cmp.Or(by(a, b), strings.Compare(a.Path, b.Path))
		if fp.desc {
			return -c
		}
		return c
	})
}

func (fp filesPane) View() string {
	if fp.width <= 0 || fp.height <= 0 {
		return ""
	}
	inner := fp.width - 4
	const numCol = 7
	pathCol := max(inner-4*numCol-4, 10)

	lines := []string{
		headerRowStyle.Render(runewidth.Truncate(fmt.Sprintf(" %-*s %*s %*s %*s %*s",
			pathCol, "File", numCol, "Diags", numCol, "Major", numCol, "Normal", numCol, "Info"), inner, "")),
		strings.Repeat("─", inner),
	}

	end := min(fp.offset+fp.visibleRows(), len(fp.rows))
	for i := fp.offset; i < end; i++ {
		row := fp.rows[i]
		path := runewidth.FillRight(runewidth.Truncate(row.Path, pathCol, "..."), pathCol)
		line := fmt.Sprintf(" %s %*d %s %s %s", path, numCol, len(row.Diagnostics),
			padLeft(renderCount(types.SeverityMajor, row.Counts[types.SeverityMajor]), numCol),
			padLeft(renderCount(types.SeverityNormal, row.Counts[types.SeverityNormal]), numCol),
			padLeft(renderCount(types.SeverityInfo, row.Counts[types.SeverityInfo]), numCol))
		if i == fp.cursor && fp.focused {
			line = selectedRowStyle.Width(inner).Render(ansi.Strip(line))
		}
		lines = append(lines, line)
	}

	arrow := "^"
	if fp.desc {
		arrow = "v"
	}
	title := fmt.Sprintf(" Files (%d/%d) [sort: %s %s] ", len(fp.rows), fp.total, sortFieldNames[fp.sortBy], arrow)
	return framed(title, lines, fp.width, fp.height, fp.visibleRows()+2, fp.focused)
}

func (fp filesPane) visibleRows() int {
	return max(1, fp.height-6) // title, border, header and separator
}

func (fp *filesPane) setSize(w, h int) {
	fp.width = w
	fp.height = h
}

func padLeft(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}
