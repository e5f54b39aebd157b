package nesting

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bearkit/bearkit/pkg/profile"
	"github.com/bearkit/bearkit/pkg/types"
)

type candidate struct {
	text    string
	marker  profile.Marker
	closing bool
	keyword bool
}

// candidates lists every structural opener and closer, longest first.
func candidates(markers []profile.Marker) []candidate {
	var out []candidate
	closers := make(map[string]bool)
	for _, m := range markers {
		if m.Kind.Lexical() {
			continue
		}
		out = append(out, candidate{text: m.Open, marker: m, keyword: profile.IsKeyword(m.Open)})
		if !closers[m.Close] {
			closers[m.Close] = true
			out = append(out, candidate{text: m.Close, marker: m, closing: true, keyword: profile.IsKeyword(m.Close)})
		}
	}
	slices.SortStableFunc(out, func(a, b candidate) int {
		if c := cmp.Compare(len(b.text), len(a.text)); c != 0 {
			return c
		}
		return cmp.Compare(a.text, b.text)
	})
	return out
}

// PrepareLines locates the structural markers of every line, skipping
// anything inside ranges. Lexical markers are only used to name the string
// or comment a line starts inside of.
func PrepareLines(lines []string, ranges types.ClassifiedRanges, markers []profile.Marker) []Line {
	text := types.JoinLines(lines)
	cands := candidates(markers)
	lexical := make([]profile.Marker, 0, len(markers))
	for _, m := range markers {
		if m.Kind.Lexical() {
			lexical = append(lexical, m)
		}
	}
	profile.SortMarkers(lexical)

	all := ranges.All()
	out := make([]Line, len(lines))
	off, ri := 0, 0
	for n, lt := range lines {
		ln := Line{Number: n + 1, Text: lt, Offset: off}

		for ri < len(all) && int(all[ri].Offset.End) <= off {
			ri++
		}
		if ri < len(all) && int(all[ri].Offset.Start) < off {
			ln.StartEscape = escapeAt(text, int(all[ri].Offset.Start), lexical)
		}

		j := ri
		for i := 0; i < len(lt); {
			abs := off + i
			for j < len(all) && int(all[j].Offset.End) <= abs {
				j++
			}
			if j < len(all) && int(all[j].Offset.Start) <= abs {
				i = int(all[j].Offset.End) - off
				continue
			}
			if c, ok := matchAt(lt, i, cands); ok {
				ln.Tokens = append(ln.Tokens, Token{
					Text:    c.text,
					Marker:  c.marker,
					Closing: c.closing,
					Index:   i,
					Column:  utf8.RuneCountInString(lt[:i]) + 1,
				})
				i += len(c.text)
				continue
			}
			i++
		}

		out[n] = ln
		off += len(lt)
	}
	return out
}

func matchAt(line string, i int, cands []candidate) (candidate, bool) {
	for _, c := range cands {
		if !strings.HasPrefix(line[i:], c.text) {
			continue
		}
		if c.keyword && !profile.AtBoundary(line, i, i+len(c.text)) {
			continue
		}
		return c, true
	}
	return candidate{}, false
}

func escapeAt(text string, start int, lexical []profile.Marker) *Escape {
	for _, m := range lexical {
		if strings.HasPrefix(text[start:], m.Open) {
			return &Escape{Marker: m.Open, Close: m.Close}
		}
	}
	return &Escape{}
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
