package explore

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// filterPane is the left-side facet tree.
type filterPane struct {
	facets    *facetState
	collapsed map[facetID]bool
	items     []filterItem // flattened tree
	cursor    int
	offset    int
	width     int
	height    int
	focused   bool
}

// filterItem is a facet heading (valueIdx < 0) or one of its values.
type filterItem struct {
	facet    facetID
	label    string
	valueIdx int
}

func (it filterItem) heading() bool { return it.valueIdx < 0 }

func newFilterPane(facets *facetState) filterPane {
	fp := filterPane{facets: facets, collapsed: make(map[facetID]bool)}
	fp.rebuildItems()
	return fp
}

func (fp *filterPane) rebuildItems() {
	fp.items = fp.items[:0]
	for _, def := range facetDefs {
		values := fp.facets.Values[def.ID]
		if len(values) == 0 {
			continue
		}
		fp.items = append(fp.items, filterItem{facet: def.ID, label: def.Label, valueIdx: -1})
		if fp.collapsed[def.ID] {
			continue
		}
		for i, v := range values {
			fp.items = append(fp.items, filterItem{facet: def.ID, label: v.Value, valueIdx: i})
		}
	}
	fp.cursor = min(fp.cursor, max(len(fp.items)-1, 0))
}

func (fp filterPane) Update(msg tea.Msg) (filterPane, tea.Cmd) {
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
		fp.move(-len(fp.items))
	case key.Matches(km, defaultKeys.End):
		fp.move(len(fp.items))
	case key.Matches(km, defaultKeys.PageDown):
		fp.move(fp.visibleRows())
	case key.Matches(km, defaultKeys.PageUp):
		fp.move(-fp.visibleRows())
	case key.Matches(km, defaultKeys.ToggleFilter):
		fp.toggleCurrent()
	case key.Matches(km, defaultKeys.ResetFilter):
		fp.facets.resetAll()
	}
	return fp, nil
}

func (fp *filterPane) move(delta int) {
	fp.cursor = max(0, min(fp.cursor+delta, len(fp.items)-1))
	fp.offset = scrollTo(fp.cursor, fp.offset, fp.visibleRows())
}

// toggleCurrent folds a heading or flips the selection of a value.
func (fp *filterPane) toggleCurrent() {
	if fp.cursor < 0 || fp.cursor >= len(fp.items) {
		return
	}
	item := fp.items[fp.cursor]
	if item.heading() {
		fp.collapsed[item.facet] = !fp.collapsed[item.facet]
		fp.rebuildItems()
		return
	}
	v := fp.facets.Values[item.facet][item.valueIdx]
	v.Selected = !v.Selected
}

func (fp filterPane) View() string {
	if fp.width <= 0 || fp.height <= 0 {
		return ""
	}
	inner := fp.width - 2

	var lines []string
	end := min(fp.offset+fp.visibleRows(), len(fp.items))
	for i := fp.offset; i < end; i++ {
		item := fp.items[i]
		var line string
		if item.heading() {
			arrow := "▾"
			if fp.collapsed[item.facet] {
				arrow = "▸"
			}
			line = facetLabelStyle.Render(fmt.Sprintf(" %s %s", arrow, item.label))
		} else {
			v := fp.facets.Values[item.facet][item.valueIdx]
			label := runewidth.Truncate(item.label, inner-12, "...")
			count := facetCountStyle.Render(fmt.Sprintf("(%d)", v.Count))
			if v.Selected {
				line = fmt.Sprintf("   %s %s %s", facetSelectedStyle.Render("+"), facetSelectedStyle.Render(label), count)
			} else {
				line = fmt.Sprintf("     %s %s", label, count)
			}
		}
		if i == fp.cursor && fp.focused {
			line = selectedRowStyle.Width(inner).Render(ansi.Strip(line))
		}
		lines = append(lines, line)
	}

	return framed(" Filters ", lines, fp.width, fp.height, fp.visibleRows(), fp.focused)
}

func (fp filterPane) visibleRows() int {
	return max(1, fp.height-4)
}

func (fp *filterPane) setSize(w, h int) {
	fp.width = w
	fp.height = h
}

// scrollTo returns the scroll offset that keeps cursor inside a window of
// rows lines starting at offset.
func scrollTo(cursor, offset, rows int) int {
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+rows {
		return cursor - rows + 1
	}
	return offset
}

// framed pads lines to a rows-high block and draws the pane border and
// title around it.
func framed(title string, lines []string, width, height, rows int, focused bool) string {
	inner := max(width-2, 0)
	var b strings.Builder
	for i := range rows {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		b.WriteString(padRight(line, inner))
		if i < rows-1 {
			b.WriteByte('\n')
		}
	}

	border := inactiveBorderStyle
	if focused {
		border = activeBorderStyle
	}
	content := border.
		Width(inner).
		Height(max(height-3, 1)).
		Render(b.String())
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content)
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
