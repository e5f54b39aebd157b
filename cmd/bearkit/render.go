package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bearkit/bearkit/pkg/sarif"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// styles holds the color formatters of the human output.
type styles struct {
	path    *color.Color
	major   *color.Color
	normal  *color.Color
	info    *color.Color
	check   *color.Color
	gutter  *color.Color
	caret   *color.Color
	added   *color.Color
	removed *color.Color
	hunk    *color.Color
	heading *color.Color
}

// newStyles creates the formatters; enabled=false strips all color.
func newStyles(enabled bool) *styles {
	s := &styles{
		path:    color.New(color.Bold),
		major:   color.New(color.Bold, color.FgRed),
		normal:  color.New(color.Bold, color.FgYellow),
		info:    color.New(color.FgCyan),
		check:   color.New(color.FgHiBlue),
		gutter:  color.New(color.FgHiBlack),
		caret:   color.New(color.Bold, color.FgGreen),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		hunk:    color.New(color.FgCyan),
		heading: color.New(color.Bold, color.FgHiWhite),
	}
	for _, c := range s.all() {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func (s *styles) all() []*color.Color {
	return []*color.Color{
		s.path, s.major, s.normal, s.info, s.check, s.gutter,
		s.caret, s.added, s.removed, s.hunk, s.heading,
	}
}

func (s *styles) severity(sev types.Severity) *color.Color {
	switch sev {
	case types.SeverityMajor:
		return s.major
	case types.SeverityInfo:
		return s.info
	}
	return s.normal
}

// colorEnabled resolves --color for out. "auto" colors terminals unless
// NO_COLOR is set.
func colorEnabled(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// humanRenderer prints diagnostics compiler-style with a caret under the
// offending text.
type humanRenderer struct {
	w       io.Writer
	s       *styles
	patches bool
}

func (h *humanRenderer) diagnostic(d *types.Diagnostic) {
	fmt.Fprintf(h.w, "%s: %s %s %s\n",
		h.s.path.Sprintf("%s:%s", d.File, d.Range.Start),
		h.s.severity(d.Severity).Sprint(d.Severity),
		h.s.check.Sprintf("[%s]", d.Check),
		d.Message)

	h.snippet(d)
	if h.patches && d.Patch != "" {
		h.patch(d.Patch)
	}
}

func (h *humanRenderer) snippet(d *types.Diagnostic) {
	sn := d.Snippet
	if len(sn.Matching) == 0 {
		return
	}
	last := sn.Line + len(sn.Matching) + len(sn.After) - 1
	width := len(strconv.Itoa(last))
	line := func(n int, text string) {
		fmt.Fprintf(h.w, "%s %s\n", h.s.gutter.Sprintf("%*d |", width, n), text)
	}

	n := sn.Line - len(sn.Before)
	for _, text := range sn.Before {
		line(n, text)
		n++
	}
	for i, text := range sn.Matching {
		line(n, text)
		if i == 0 {
			end := len([]rune(text))
			if d.Range.End.Line == d.Range.Start.Line {
				end = d.Range.End.Column
			}
			fmt.Fprintf(h.w, "%s %s\n",
				h.s.gutter.Sprintf("%*s |", width, ""),
				caretLine(text, d.Range.Start.Column, end, h.s.caret))
		}
		n++
	}
	for _, text := range sn.After {
		line(n, text)
		n++
	}
}

// caretLine underlines columns start..end (1-based, inclusive) of text.
// Tabs are copied so the carets line up whatever the tab width.
func caretLine(text string, start, end int, c *color.Color) string {
	runes := []rune(text)
	start = max(start, 1)
	end = max(end, start)

	var pad strings.Builder
	for _, r := range runes[:min(start-1, len(runes))] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	n := 1
	if start <= len(runes) {
		n = max(runewidth.StringWidth(string(runes[start-1:min(end, len(runes))])), 1)
	}
	return pad.String() + c.Sprint(strings.Repeat("^", n))
}

func (h *humanRenderer) patch(text string) {
	for l := range strings.Lines(text) {
		l = strings.TrimSuffix(l, "\n")
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			fmt.Fprintf(h.w, "    %s\n", h.s.heading.Sprint(l))
		case strings.HasPrefix(l, "@@"):
			fmt.Fprintf(h.w, "    %s\n", h.s.hunk.Sprint(l))
		case strings.HasPrefix(l, "+"):
			fmt.Fprintf(h.w, "    %s\n", h.s.added.Sprint(l))
		case strings.HasPrefix(l, "-"):
			fmt.Fprintf(h.w, "    %s\n", h.s.removed.Sprint(l))
		default:
			fmt.Fprintf(h.w, "    %s\n", l)
		}
	}
}

// summary prints the closing count line.
func (h *humanRenderer) summary(files int, diags []*types.Diagnostic) {
	if len(diags) == 0 {
		fmt.Fprintf(h.w, "%s\n", h.s.heading.Sprintf("%d files checked, no problems found", files))
		return
	}
	counts := make(map[types.Severity]int)
	for _, d := range diags {
		counts[d.Severity]++
	}
	fmt.Fprintf(h.w, "\n%s (%s, %s, %s)\n",
		h.s.heading.Sprintf("%d files checked, %d diagnostics", files, len(diags)),
		h.s.major.Sprintf("%d major", counts[types.SeverityMajor]),
		h.s.normal.Sprintf("%d normal", counts[types.SeverityNormal]),
		h.s.info.Sprintf("%d info", counts[types.SeverityInfo]))
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeSARIF(w io.Writer, diags []*types.Diagnostic) error {
	report := sarif.NewReport()
	for _, c := range types.AllChecks {
		report.AddRule(c)
	}
	for _, d := range diags {
		report.AddResult(d)
	}
	data, err := report.ToJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
