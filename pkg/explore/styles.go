package explore

import (
	"strconv"

	"github.com/bearkit/bearkit/pkg/types"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary   = lipgloss.Color("#8a5a44") // bear brown
	colorSecondary = lipgloss.Color("10")      // green
	colorMajor     = lipgloss.Color("9")       // red
	colorNormal    = lipgloss.Color("#D4AF37") // gold
	colorInfo      = lipgloss.Color("#11C3DB") // cyan
	colorMuted     = lipgloss.Color("8")
	colorHighlight = lipgloss.Color("15")
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted)
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Background(colorPrimary).
	Padding(0, 1)

var (
	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("17")).
				Foreground(colorHighlight)

	headerRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorInfo)
)

var (
	snippetLineStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorHighlight)
	snippetContextStyle = lipgloss.NewStyle().Foreground(colorMuted)
	gutterStyle         = lipgloss.NewStyle().Foreground(colorMuted)

	patchAddStyle    = lipgloss.NewStyle().Foreground(colorSecondary)
	patchRemoveStyle = lipgloss.NewStyle().Foreground(colorMajor)
	patchHunkStyle   = lipgloss.NewStyle().Foreground(colorInfo)
)

var statusBarStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

var (
	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorInfo)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

var (
	facetLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	facetSelectedStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	facetCountStyle    = lipgloss.NewStyle().Foreground(colorMuted)
)

var (
	fieldLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorInfo)
	fieldValueStyle = lipgloss.NewStyle().Foreground(colorHighlight)
)

var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

var severityStyles = map[types.Severity]lipgloss.Style{
	types.SeverityMajor:  lipgloss.NewStyle().Foreground(colorMajor).Bold(true),
	types.SeverityNormal: lipgloss.NewStyle().Foreground(colorNormal),
	types.SeverityInfo:   lipgloss.NewStyle().Foreground(colorInfo),
}

// renderSeverity returns the styled name of a severity.
func renderSeverity(s types.Severity) string {
	return severityStyles[s].Render(s.String())
}

// renderCount styles a per-severity count, dimming zeros.
func renderCount(s types.Severity, n int) string {
	if n == 0 {
		return gutterStyle.Render("0")
	}
	return severityStyles[s].Render(strconv.Itoa(n))
}
