package types

import "strings"

// Snippet holds the lines around a diagnostic.
type Snippet struct {
	Before   []string `json:"before,omitempty"` // lines preceding the range
	Matching []string `json:"matching"`         // lines the range touches
	After    []string `json:"after,omitempty"`  // lines following the range
	Line     int      `json:"line"`             // 1-based line of Matching[0]
}

// ExtractSnippet returns the lines covered by r plus up to context lines on
// either side. Line terminators are stripped.
func ExtractSnippet(lines []string, r SourceRange, context int) Snippet {
	if len(lines) == 0 || r.Start.Line < 1 {
		return Snippet{}
	}
	first := min(r.Start.Line, len(lines))
	last := min(max(r.End.Line, first), len(lines))
	lo := max(first-context, 1)
	hi := min(last+context, len(lines))

	trim := func(ls []string) []string {
		if len(ls) == 0 {
			return nil
		}
		out := make([]string, len(ls))
		for i, l := range ls {
			out[i] = strings.TrimRight(l, "\r\n")
		}
		return out
	}

	return Snippet{
		Before:   trim(lines[lo-1 : first-1]),
		Matching: trim(lines[first-1 : last]),
		After:    trim(lines[last:hi]),
		Line:     first,
	}
}
