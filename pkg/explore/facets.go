package explore

import (
	"slices"
	"strings"

	"github.com/bearkit/bearkit/pkg/types"
)

type facetID int

const (
	facetCheck facetID = iota
	facetSeverity
	facetExtension
)

type facetDef struct {
	ID    facetID
	Label string
}

var facetDefs = []facetDef{
	{facetCheck, "Check"},
	{facetSeverity, "Severity"},
	{facetExtension, "Extension"},
}

// facetValue is a single selectable value within a facet.
type facetValue struct {
	FacetID  facetID
	Value    string
	Count    int
	Selected bool
}

// facetState holds the selections of every facet. Values within a facet
// are ORed; facets are ANDed.
type facetState struct {
	Values map[facetID][]*facetValue
}

func buildFacets(files []*fileRow) *facetState {
	counts := map[facetID]map[string]int{
		facetCheck:     {},
		facetSeverity:  {},
		facetExtension: {},
	}
	for _, f := range files {
		for v := range fileValues(f, facetCheck) {
			counts[facetCheck][v]++
		}
		for v := range fileValues(f, facetSeverity) {
			counts[facetSeverity][v]++
		}
		counts[facetExtension][f.Extension]++
	}

	fs := &facetState{Values: make(map[facetID][]*facetValue)}
	for id, c := range counts {
		values := make([]*facetValue, 0, len(c))
		for v, n := range c {
			values = append(values, &facetValue{FacetID: id, Value: v, Count: n})
		}
		slices.SortFunc(values, func(a, b *facetValue) int {
			return strings.Compare(a.Value, b.Value)
		})
		fs.Values[id] = values
	}
	return fs
}

// fileValues returns the set of values f has for a facet.
func fileValues(f *fileRow, id facetID) map[string]bool {
	out := make(map[string]bool)
	switch id {
	case facetCheck:
		for _, c := range f.checks() {
			out[string(c)] = true
		}
	case facetSeverity:
		for _, d := range f.Diagnostics {
			out[d.Severity.String()] = true
		}
	case facetExtension:
		out[f.Extension] = true
	}
	return out
}

func (fs *facetState) selectedValues(id facetID) map[string]bool {
	selected := make(map[string]bool)
	for _, v := range fs.Values[id] {
		if v.Selected {
			selected[v.Value] = true
		}
	}
	return selected
}

func (fs *facetState) hasActiveFilters() bool {
	for _, values := range fs.Values {
		for _, v := range values {
			if v.Selected {
				return true
			}
		}
	}
	return false
}

func (fs *facetState) resetAll() {
	for _, values := range fs.Values {
		for _, v := range values {
			v.Selected = false
		}
	}
}

// matchesFile reports whether f has at least one diagnostic passing the
// check and severity facets and its extension passes the extension facet.
func (fs *facetState) matchesFile(f *fileRow) bool {
	if ext := fs.selectedValues(facetExtension); len(ext) > 0 && !ext[f.Extension] {
		return false
	}
	return len(fs.diagnosticsOf(f)) > 0
}

// diagnosticsOf returns the diagnostics of f that pass the check and
// severity facets.
func (fs *facetState) diagnosticsOf(f *fileRow) []*types.Diagnostic {
	checks := fs.selectedValues(facetCheck)
	severities := fs.selectedValues(facetSeverity)
	var out []*types.Diagnostic
	for _, d := range f.Diagnostics {
		if len(checks) > 0 && !checks[string(d.Check)] {
			continue
		}
		if len(severities) > 0 && !severities[d.Severity.String()] {
			continue
		}
		out = append(out, d)
	}
	return out
}

// updateCounts recounts, per facet value, the files passing the current
// selection that carry that value.
func (fs *facetState) updateCounts(files []*fileRow) {
	for _, values := range fs.Values {
		for _, v := range values {
			v.Count = 0
		}
	}
	for _, f := range files {
		if !fs.matchesFile(f) {
			continue
		}
		for id, values := range fs.Values {
			have := fileValues(f, id)
			for _, v := range values {
				if have[v.Value] {
					v.Count++
				}
			}
		}
	}
}
