package explore

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bearkit/bearkit/pkg/types"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type focusedPane int

const (
	paneFilters focusedPane = iota
	paneFiles
	paneDetails
	paneCount
)

type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlaySource
)

// pagerFinishedMsg is sent when an external pager process exits.
type pagerFinishedMsg struct{ err error }

// Model is the root Bubble Tea model of the diagnostics browser.
type Model struct {
	data    *exploreData
	filters filterPane
	files   filesPane
	details detailsPane

	focus         focusedPane
	activeOverlay overlay
	showFilters   bool

	overlayText   string
	overlayOffset int

	width  int
	height int
	err    error
}

// New loads the datastore at storePath and returns a model browsing it.
func New(storePath string) (Model, error) {
	data, err := loadData(storePath)
	if err != nil {
		return Model{}, err
	}
	return newModel(data), nil
}

func newModel(data *exploreData) Model {
	m := Model{
		data:        data,
		filters:     newFilterPane(buildFacets(data.files)),
		files:       newFilesPane(data.files),
		showFilters: true,
	}
	m.setFocus(paneFiles)
	m.syncDetails()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("bearkit explore")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pagerFinishedMsg:
		m.err = msg.err
		return m, nil

	case tea.MouseMsg:
		if m.activeOverlay != overlayNone || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.handleMouseClick(msg.X, msg.Y)
		return m, nil

	case tea.KeyMsg:
		if m.activeOverlay != overlayNone {
			m.updateOverlay(msg)
			return m, nil
		}

		switch {
		case key.Matches(msg, defaultKeys.ForceQuit), key.Matches(msg, defaultKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, defaultKeys.ToggleHelp):
			m.showOverlay(overlayHelp, helpText)
			return m, nil
		case key.Matches(msg, defaultKeys.ToggleFilters):
			m.showFilters = !m.showFilters
			if !m.showFilters && m.focus == paneFilters {
				m.setFocus(paneFiles)
			}
			return m, nil
		case key.Matches(msg, defaultKeys.FocusFilters):
			if m.showFilters {
				m.setFocus(paneFilters)
			}
			return m, nil
		case key.Matches(msg, defaultKeys.FocusFiles):
			m.setFocus(paneFiles)
			return m, nil
		case key.Matches(msg, defaultKeys.FocusDetails):
			m.setFocus(paneDetails)
			return m, nil
		case key.Matches(msg, defaultKeys.CycleFocus):
			m.cycleFocus()
			return m, nil
		}

		if m.focus != paneFilters {
			switch {
			case key.Matches(msg, defaultKeys.OpenSource):
				return m, m.openSource()
			case key.Matches(msg, defaultKeys.Left),
				key.Matches(msg, defaultKeys.Right),
				key.Matches(msg, defaultKeys.TogglePatch):
				var cmd tea.Cmd
				m.details, cmd = m.details.Update(msg)
				return m, cmd
			}
		}

		var cmd tea.Cmd
		switch m.focus {
		case paneFilters:
			m.filters, cmd = m.filters.Update(msg)
			m.applyFilters()
		case paneFiles:
			prev := m.files.selected()
			m.files, cmd = m.files.Update(msg)
			if m.files.selected() != prev {
				m.syncDetails()
			}
		case paneDetails:
			m.details, cmd = m.details.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

func (m *Model) updateOverlay(msg tea.KeyMsg) {
	page := max(m.height/2, 1)
	switch {
	case key.Matches(msg, defaultKeys.Quit),
		key.Matches(msg, defaultKeys.ForceQuit),
		key.Matches(msg, defaultKeys.ToggleHelp) && m.activeOverlay == overlayHelp,
		key.Matches(msg, defaultKeys.OpenSource) && m.activeOverlay == overlaySource,
		msg.Type == tea.KeyEsc:
		m.activeOverlay = overlayNone
	case key.Matches(msg, defaultKeys.Down):
		m.overlayOffset++
	case key.Matches(msg, defaultKeys.Up):
		m.overlayOffset = max(0, m.overlayOffset-1)
	case key.Matches(msg, defaultKeys.PageDown):
		m.overlayOffset += page
	case key.Matches(msg, defaultKeys.PageUp):
		m.overlayOffset = max(0, m.overlayOffset-page)
	case key.Matches(msg, defaultKeys.Home):
		m.overlayOffset = 0
	}
}

func (m *Model) showOverlay(o overlay, text string) {
	m.activeOverlay = o
	m.overlayText = text
	m.overlayOffset = 0
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.activeOverlay != overlayNone {
		return m.renderOverlay()
	}

	contentHeight := m.height - 2
	dataWidth := m.width
	filesHeight := contentHeight * 40 / 100
	detailsHeight := contentHeight - filesHeight

	var filtersView string
	if m.showFilters {
		filtersWidth := m.filtersWidth()
		dataWidth -= filtersWidth
		m.filters.setSize(filtersWidth, contentHeight)
		filtersView = m.filters.View()
	}
	m.files.setSize(dataWidth, filesHeight)
	m.details.setSize(dataWidth, detailsHeight)

	main := lipgloss.JoinVertical(lipgloss.Left, m.files.View(), m.details.View())
	if m.showFilters {
		main = lipgloss.JoinHorizontal(lipgloss.Top, filtersView, main)
	}
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) filtersWidth() int {
	return min(m.width*30/100, 50)
}

func (m Model) renderStatusBar() string {
	left := statusBarStyle.Render(fmt.Sprintf(" %d files | %d shown | %d diagnostics",
		len(m.data.files), len(m.files.rows), m.data.total))
	if m.err != nil {
		left += " " + severityStyles[types.SeverityMajor].Render(m.err.Error())
	}

	var hints []string
	for _, b := range statusKeys {
		h := b.Help()
		hints = append(hints, helpKeyStyle.Render(h.Key)+":"+helpDescStyle.Render(h.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderOverlay() string {
	width := m.width * 80 / 100
	height := m.height * 80 / 100

	title := " Help (q to close) "
	if m.activeOverlay == overlaySource {
		title = " Source (q to close) "
	}

	lines := strings.Split(m.overlayText, "\n")
	rows := max(height-4, 1)
	offset := min(m.overlayOffset, max(len(lines)-1, 0))
	lines = lines[offset:min(offset+rows, len(lines))]

	box := modalStyle.
		Width(width - 4).
		Height(height - 2).
		Render(strings.Join(lines, "\n"))
	view := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), box)

	hPad := (m.width - lipgloss.Width(view)) / 2
	vPad := (m.height - lipgloss.Height(view)) / 2
	return strings.Repeat("\n", max(0, vPad)) +
		lipgloss.NewStyle().PaddingLeft(max(0, hPad)).Render(view)
}

func (m *Model) setFocus(p focusedPane) {
	m.filters.focused = p == paneFilters
	m.files.focused = p == paneFiles
	m.details.focused = p == paneDetails
	m.focus = p
}

func (m *Model) cycleFocus() {
	next := (m.focus + 1) % paneCount
	if next == paneFilters && !m.showFilters {
		next = paneFiles
	}
	m.setFocus(next)
}

func (m *Model) handleMouseClick(x, y int) {
	contentHeight := m.height - 2
	filesHeight := contentHeight * 40 / 100
	left := 0
	if m.showFilters {
		left = m.filtersWidth()
	}

	switch {
	case y >= contentHeight:
	case x < left:
		m.setFocus(paneFilters)
		if row := y - 2; row >= 0 { // title and top border
			if idx := row + m.filters.offset; idx < len(m.filters.items) {
				m.filters.cursor = idx
				m.filters.toggleCurrent()
				m.applyFilters()
			}
		}
	case y < filesHeight:
		m.setFocus(paneFiles)
		if row := y - 4; row >= 0 { // title, border, header and separator
			if idx := row + m.files.offset; idx < len(m.files.rows) {
				m.files.cursor = idx
				m.syncDetails()
			}
		}
	default:
		m.setFocus(paneDetails)
	}
}

// applyFilters recomputes the visible files and facet counts after the
// selection changed.
func (m *Model) applyFilters() {
	facets := m.filters.facets
	var rows []*fileRow
	for _, f := range m.data.files {
		if facets.matchesFile(f) {
			rows = append(rows, f)
		}
	}
	m.files.setRows(rows)
	facets.updateCounts(m.data.files)
	m.syncDetails()
}

// syncDetails points the details pane at the selected file.
func (m *Model) syncDetails() {
	f := m.files.selected()
	if f == nil {
		m.details.setFile(nil, nil)
		return
	}
	m.details.setFile(f, m.filters.facets.diagnosticsOf(f))
}

// openSource pages the file at the diagnostic's line when it still exists
// on disk, and shows the stored snippet otherwise.
func (m *Model) openSource() tea.Cmd {
	d := m.details.selected()
	if d == nil {
		return nil
	}
	if fi, err := os.Stat(d.File); err == nil && fi.Mode().IsRegular() {
		return openInPager(d.File, d.Range.Start.Line)
	}

	var sb strings.Builder
	for _, l := range renderSnippet(d.Snippet) {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	m.showOverlay(overlaySource, sb.String())
	return nil
}

func openInPager(path string, line int) tea.Cmd {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}

	var args []string
	if line > 0 && pager == "less" {
		args = append(args, fmt.Sprintf("+%d", line))
	}
	args = append(args, path)

	return tea.ExecProcess(exec.Command(pager, args...), func(err error) tea.Msg {
		return pagerFinishedMsg{err: err}
	})
}

// Close releases the datastore.
func (m *Model) Close() error {
	if m.data != nil {
		return m.data.close()
	}
	return nil
}

const helpText = `bearkit explore - interactive diagnostics browser

NAVIGATION
  j/k or Up/Down    Move cursor, or scroll the details pane
  h/l or Left/Right Previous/next diagnostic of the selected file
  Ctrl+f/Ctrl+b     Page down/up
  g/G               Jump to top/bottom

FOCUS
  Tab               Next pane
  F1                Focus filters pane
  f                 Focus files pane
  d                 Focus details pane
  F7                Toggle filters pane visibility

FILTERS
  x, Space, Enter   Toggle filter value, or fold a facet
  Ctrl+r            Reset all filters

VIEWS
  p                 Show the suggested patch instead of the snippet
  s/S               Cycle sort column / reverse sort
  o                 Open source (pager when the file exists, else snippet)
  ?                 Toggle this help screen

QUIT
  q                 Quit
  Ctrl+c            Force quit
`
