package explore

import (
	"fmt"
	"strings"

	"github.com/bearkit/bearkit/pkg/types"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// detailsPane shows one diagnostic of the selected file at a time.
type detailsPane struct {
	file        *fileRow
	diagnostics []*types.Diagnostic // those passing the filters
	index       int
	showPatch   bool
	offset      int
	width       int
	height      int
	focused     bool
}

func (dp *detailsPane) setFile(f *fileRow, diags []*types.Diagnostic) {
	dp.file = f
	dp.diagnostics = diags
	dp.index = 0
	dp.offset = 0
}

func (dp detailsPane) selected() *types.Diagnostic {
	if dp.index < 0 || dp.index >= len(dp.diagnostics) {
		return nil
	}
	return dp.diagnostics[dp.index]
}

func (dp detailsPane) Update(msg tea.Msg) (detailsPane, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return dp, nil
	}
	// h/l step through diagnostics from the files pane too.
	switch {
	case key.Matches(km, defaultKeys.Left):
		if dp.index > 0 {
			dp.index--
			dp.offset = 0
		}
		return dp, nil
	case key.Matches(km, defaultKeys.Right):
		if dp.index < len(dp.diagnostics)-1 {
			dp.index++
			dp.offset = 0
		}
		return dp, nil
	case key.Matches(km, defaultKeys.TogglePatch):
		dp.showPatch = !dp.showPatch
		dp.offset = 0
		return dp, nil
	}
	if !dp.focused {
		return dp, nil
	}
	switch {
	case key.Matches(km, defaultKeys.Up):
		dp.offset = max(0, dp.offset-1)
	case key.Matches(km, defaultKeys.Down):
		dp.offset++
	case key.Matches(km, defaultKeys.Home):
		dp.offset = 0
	case key.Matches(km, defaultKeys.PageDown):
		dp.offset += dp.visibleRows()
	case key.Matches(km, defaultKeys.PageUp):
		dp.offset = max(0, dp.offset-dp.visibleRows())
	}
	return dp, nil
}

func (dp detailsPane) View() string {
	if dp.width <= 0 || dp.height <= 0 {
		return ""
	}
	inner := dp.width - 4

	lines := dp.content(inner)
	offset := min(dp.offset, max(len(lines)-1, 0))
	lines = lines[offset:]
	for i, l := range lines {
		lines[i] = runewidth.Truncate(l, inner, "")
	}
	if len(lines) > dp.visibleRows() {
		lines = lines[:dp.visibleRows()]
	}
	return framed(" Details ", lines, dp.width, dp.height, dp.visibleRows(), dp.focused)
}

func field(label, value string) string {
	return fmt.Sprintf("  %s %s", fieldLabelStyle.Render(label), fieldValueStyle.Render(value))
}

// content renders the full, unscrolled detail text.
func (dp detailsPane) content(width int) []string {
	f := dp.file
	if f == nil {
		return []string{"  No file selected"}
	}

	lines := []string{
		field("File:", f.Path),
		field("Blob:", f.BlobID.Hex()[:12]+"..."),
	}
	for _, p := range f.OtherPaths {
		lines = append(lines, field("Also in:", p))
	}
	lines = append(lines, "")

	d := dp.selected()
	if d == nil {
		return append(lines, "  No diagnostics match the filters")
	}

	lines = append(lines,
		"  "+headerRowStyle.Render(fmt.Sprintf("Diagnostic %d/%d (h/l to navigate)", dp.index+1, len(dp.diagnostics))),
		"  "+strings.Repeat("─", min(40, max(width-4, 1))),
		fmt.Sprintf("  %s %s  %s", fieldLabelStyle.Render("Check:"), fieldValueStyle.Render(string(d.Check)), renderSeverity(d.Severity)),
		field("Message:", d.Message),
		field("Range:", fmt.Sprintf("%s - %s (bytes %d-%d)", d.Range.Start, d.Range.End, d.Range.Offset.Start, d.Range.Offset.End)),
		field("ID:", d.ID),
		"",
	)

	if dp.showPatch {
		if d.Patch == "" {
			return append(lines, "  No patch for this diagnostic")
		}
		lines = append(lines, "  "+fieldLabelStyle.Render("Patch:"))
		return append(lines, renderPatch(d.Patch)...)
	}

	lines = append(lines, "  "+fieldLabelStyle.Render("Snippet:"))
	return append(lines, renderSnippet(d.Snippet)...)
}

// renderSnippet numbers the snippet lines and highlights the ones the
// diagnostic covers.
func renderSnippet(sn types.Snippet) []string {
	first := sn.Line - len(sn.Before)
	last := sn.Line + len(sn.Matching) + len(sn.After) - 1
	width := len(fmt.Sprint(last))

	var out []string
	n := first
	emit := func(text string, style func(...string) string) {
		text = strings.ReplaceAll(text, "\t", "    ")
		out = append(out, fmt.Sprintf("    %s %s", gutterStyle.Render(fmt.Sprintf("%*d", width, n)), style(text)))
		n++
	}
	for _, l := range sn.Before {
		emit(l, snippetContextStyle.Render)
	}
	for _, l := range sn.Matching {
		emit(l, snippetLineStyle.Render)
	}
	for _, l := range sn.After {
		emit(l, snippetContextStyle.Render)
	}
	return out
}

func renderPatch(patch string) []string {
	var out []string
	for l := range strings.Lines(patch) {
		l = strings.ReplaceAll(strings.TrimSuffix(l, "\n"), "\t", "    ")
		switch {
		case strings.HasPrefix(l, "@@"):
			l = patchHunkStyle.Render(l)
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			l = fieldLabelStyle.Render(l)
		case strings.HasPrefix(l, "+"):
			l = patchAddStyle.Render(l)
		case strings.HasPrefix(l, "-"):
			l = patchRemoveStyle.Render(l)
		}
		out = append(out, "    "+l)
	}
	return out
}

func (dp detailsPane) visibleRows() int {
	return max(1, dp.height-4)
}

func (dp *detailsPane) setSize(w, h int) {
	dp.width = w
	dp.height = h
}
