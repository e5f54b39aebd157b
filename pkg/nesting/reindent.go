package nesting

import (
	"iter"
	"strings"

	"github.com/bearkit/bearkit/pkg/profile"
	"github.com/bearkit/bearkit/pkg/types"
)

// Options controls how corrected lines are indented.
type Options struct {
	// Unit is the indentation for one level. Empty means a tab.
	Unit string
}

// SpacesUnit returns an indentation unit of n spaces.
func SpacesUnit(n int) string {
	return strings.Repeat(" ", n)
}

func (o Options) unit() string {
	if o.Unit == "" {
		return "\t"
	}
	return o.Unit
}

// Correction is the re-indented form of a file. Lines are built on demand
// and memoized, so a Correction is not safe for concurrent use.
type Correction struct {
	original []string
	plans    []LinePlan
	unit     string
	prefix   []string
	known    []bool
}

// Reindent computes the corrected indentation of lines. Nothing is
// returned unless every marker pairs up.
func Reindent(lines []string, ranges types.ClassifiedRanges, markers []profile.Marker, opts Options) (*Correction, error) {
	plans, err := Track(lines, ranges, markers)
	if err != nil {
		return nil, err
	}
	return &Correction{
		original: lines,
		plans:    plans,
		unit:     opts.unit(),
		prefix:   make([]string, len(lines)),
		known:    make([]bool, len(lines)),
	}, nil
}

// Len returns the number of lines.
func (c *Correction) Len() int {
	return len(c.original)
}

// Line returns corrected line i (0-based), terminator included.
func (c *Correction) Line(i int) string {
	orig := c.original[i]
	if c.plans[i].Verbatim {
		return orig
	}
	return c.prefixOf(i) + strings.TrimLeft(orig, " \t")
}

// Lines yields the corrected lines with their 0-based index. Stopping the
// iteration stops the work.
func (c *Correction) Lines() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i := range c.original {
			if !yield(i, c.Line(i)) {
				return
			}
		}
	}
}

// Collect returns all corrected lines.
func (c *Correction) Collect() []string {
	out := make([]string, 0, len(c.original))
	for _, l := range c.Lines() {
		out = append(out, l)
	}
	return out
}

// Changed returns the 1-based numbers of lines whose indentation differs.
func (c *Correction) Changed() []int {
	var out []int
	for i, l := range c.Lines() {
		if l != c.original[i] {
			out = append(out, i+1)
		}
	}
	return out
}

// Plans returns the per-line layout decisions.
func (c *Correction) Plans() []LinePlan {
	return c.plans
}

func (c *Correction) prefixOf(i int) string {
	if c.known[i] {
		return c.prefix[i]
	}

	plan := c.plans[i]
	var p string
	switch {
	case plan.Verbatim:
		p = leadingSpace(c.original[i])
	case plan.Align != nil:
		j := plan.Align.Line - 1
		p = c.prefixOf(j)
		if !plan.Align.Closed {
			src := c.original[j]
			ws := len(leadingSpace(src))
			col := indentWidth(p)
			p += strings.Repeat(" ", advance(col, src[ws:plan.Align.Index+plan.Align.Width])-col)
		}
	default:
		p = strings.Repeat(c.unit, max(plan.Level, 0))
	}

	c.prefix[i], c.known[i] = p, true
	return p
}
