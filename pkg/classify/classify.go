// Package classify finds the string literal and comment ranges of a file.
package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/bearkit/bearkit/pkg/prefilter"
	"github.com/bearkit/bearkit/pkg/profile"
	"github.com/bearkit/bearkit/pkg/types"
)

// Classifier scans files of one language. It holds no per-file state and
// is safe for concurrent use.
type Classifier struct {
	escape     string
	tokenStart bool
	markers    []profile.Marker
	pf         *prefilter.Prefilter
}

// New builds a classifier over the string and comment markers of p.
func New(p *profile.LexicalProfile) *Classifier {
	markers := p.LexicalMarkers()
	profile.SortMarkers(markers)
	return &Classifier{
		escape:     p.Escape,
		tokenStart: p.CommentTokenStart,
		markers:    markers,
		pf:         prefilter.New(markers),
	}
}

// Classify is shorthand for New(p).Classify(file, lines).
func Classify(file string, lines []string, p *profile.LexicalProfile) (types.ClassifiedRanges, error) {
	return New(p).Classify(file, lines)
}

// Classify returns the string and comment ranges of lines. Each line keeps
// its terminator. Scanning stops at the first unterminated string or
// comment, which is returned as *UnterminatedEscapeError.
func (c *Classifier) Classify(file string, lines []string) (types.ClassifiedRanges, error) {
	text := types.JoinLines(lines)
	idx := types.NewLineIndex(text)
	out := types.ClassifiedRanges{
		Strings:  []types.SourceRange{},
		Comments: []types.SourceRange{},
	}

	s := newScanner(text, c.pf.Filter([]byte(text)), c.tokenStart)
	for pos := 0; pos < len(text); {
		m, start, ok := s.next(pos)
		if !ok {
			break
		}
		end, closed := c.closeOf(text, m, start)
		if !closed {
			return out, &UnterminatedEscapeError{
				Marker: m.Open,
				Close:  closeName(m),
				Range:  idx.Range(file, start, start+len(m.Open)),
			}
		}

		r := idx.Range(file, start, end)
		if m.Kind.IsComment() {
			out.Comments = appendMerged(out.Comments, r)
		} else {
			out.Strings = appendMerged(out.Strings, r)
		}
		pos = max(end, start+1)
	}

	return out, nil
}

// closeOf returns the end offset (exclusive) of the range m opens at start.
func (c *Classifier) closeOf(text string, m profile.Marker, start int) (int, bool) {
	body := start + len(m.Open)

	switch m.Kind {
	case profile.Comment:
		nl := strings.IndexByte(text[body:], '\n')
		if nl < 0 {
			return len(text), true
		}
		end := body + nl
		if end > body && text[end-1] == '\r' {
			end--
		}
		return end, true

	case profile.MultilineComment:
		i := strings.Index(text[body:], m.Close)
		if i < 0 {
			return 0, false
		}
		return body + i + len(m.Close), true
	}

	for i := body; i < len(text); {
		switch {
		case c.escape != "" && !m.Raw && strings.HasPrefix(text[i:], c.escape):
			i += len(c.escape)
			if i < len(text) {
				_, size := utf8.DecodeRuneInString(text[i:])
				i += size
			}
		case strings.HasPrefix(text[i:], m.Close):
			return i + len(m.Close), true
		case text[i] == '\n' && !m.Kind.Multiline():
			return 0, false
		default:
			i++
		}
	}
	return 0, false
}

func closeName(m profile.Marker) string {
	if m.Close == "" {
		return "end of line"
	}
	return m.Close
}

// appendMerged appends r, folding it into the previous range when their
// byte spans touch.
func appendMerged(ranges []types.SourceRange, r types.SourceRange) []types.SourceRange {
	if n := len(ranges); n > 0 && ranges[n-1].Offset.End == r.Offset.Start {
		prev := &ranges[n-1]
		prev.End = r.End
		prev.Offset.End = r.Offset.End
		return ranges
	}
	return append(ranges, r)
}
