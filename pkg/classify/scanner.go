package classify

import (
	"strings"

	"github.com/bearkit/bearkit/pkg/profile"
)

// scanner finds the earliest marker opener at or after a position.
// It remembers the next occurrence of every marker so the whole text is
// searched at most once per marker.
type scanner struct {
	text       string
	markers    []profile.Marker
	tokenStart bool  // single-line comments only open at a token start
	cached     []int // next occurrence per marker, -1 when exhausted
	from       []int // position cached was computed from, -1 when unset
}

func newScanner(text string, markers []profile.Marker, tokenStart bool) *scanner {
	s := &scanner{
		text:       text,
		markers:    markers,
		tokenStart: tokenStart,
		cached:     make([]int, len(markers)),
		from:       make([]int, len(markers)),
	}
	for i := range s.from {
		s.from[i] = -1
	}
	return s
}

// next returns the marker opening earliest at or after pos. Markers are
// sorted longest first, so on a tie the longest opener wins.
func (s *scanner) next(pos int) (profile.Marker, int, bool) {
	best, bestAt := -1, -1
	for i := range s.markers {
		at := s.occurrence(i, pos)
		if at >= 0 && (bestAt < 0 || at < bestAt) {
			best, bestAt = i, at
		}
	}
	if best < 0 {
		return profile.Marker{}, 0, false
	}
	return s.markers[best], bestAt, true
}

func (s *scanner) occurrence(i, pos int) int {
	if s.from[i] >= 0 && s.from[i] <= pos && (s.cached[i] < 0 || s.cached[i] >= pos) {
		return s.cached[i]
	}
	s.from[i] = pos
	s.cached[i] = s.find(s.markers[i], pos)
	return s.cached[i]
}

func (s *scanner) find(m profile.Marker, pos int) int {
	for {
		at := Find(s.text, m.Open, pos)
		if at < 0 || !s.tokenStart || m.Kind != profile.Comment || startsToken(s.text, at) {
			return at
		}
		pos = at + 1
	}
}

// startsToken reports whether offset at begins a line or follows
// whitespace.
func startsToken(text string, at int) bool {
	if at == 0 {
		return true
	}
	switch text[at-1] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// Find returns the first offset at or after pos where marker occurs as a
// full token, or -1.
func Find(text, marker string, pos int) int {
	keyword := profile.IsKeyword(marker)
	for pos <= len(text) {
		i := strings.Index(text[pos:], marker)
		if i < 0 {
			return -1
		}
		at := pos + i
		if !keyword || profile.AtBoundary(text, at, at+len(marker)) {
			return at
		}
		pos = at + 1
	}
	return -1
}
