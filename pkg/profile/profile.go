// Package profile loads and validates the per-language lexical tables that
// drive classification and nesting analysis.
package profile

import (
	"cmp"
	"slices"
)

// MarkerKind tags what a marker pair delimits.
type MarkerKind int

const (
	// Comment runs to the end of its line; Close is empty.
	Comment MarkerKind = iota
	MultilineComment
	// String must close on the line it opened.
	String
	MultilineString
	// Indent pairs raise the nesting depth of the lines between them.
	Indent
	// Bracket pairs align continuation lines one column past the opener.
	Bracket
)

var kindNames = [...]string{
	Comment:          "comment",
	MultilineComment: "multiline_comment",
	String:           "string",
	MultilineString:  "multiline_string",
	Indent:           "indent",
	Bracket:          "bracket",
}

func (k MarkerKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k MarkerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Lexical reports whether the kind delimits a string or comment.
func (k MarkerKind) Lexical() bool {
	return k <= MultilineString
}

// IsComment reports whether the kind is either comment kind.
func (k MarkerKind) IsComment() bool {
	return k == Comment || k == MultilineComment
}

// Multiline reports whether a range of this kind may cross line ends.
func (k MarkerKind) Multiline() bool {
	return k == MultilineComment || k == MultilineString
}

// Marker is one open/close delimiter pair.
type Marker struct {
	Kind  MarkerKind `json:"kind"`
	Open  string     `json:"open"`
	Close string     `json:"close,omitempty"`

	// Raw strings ignore the profile's escape prefix.
	Raw bool `json:"raw,omitempty"`
}

// Keyword reports whether the opener or closer begins or ends with a word
// character, which requires token boundaries around matches.
func (m Marker) Keyword() bool {
	return IsKeyword(m.Open) || IsKeyword(m.Close)
}

// LexicalProfile describes the delimiters of one language.
type LexicalProfile struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases,omitempty"`
	Extensions []string `json:"extensions,omitempty"`
	Filenames  []string `json:"filenames,omitempty"`
	Markers    []Marker `json:"markers"`

	// Escape prefixes a character that cannot close a string.
	// Empty disables escaping.
	Escape string `json:"escape"`

	// CommentTokenStart restricts single-line comment openers to the start
	// of a line or a position after whitespace, as in shell where "#"
	// inside a word is literal.
	CommentTokenStart bool `json:"comment_token_start,omitempty"`

	// ExpectIndentAfter lists patterns for lines that must be followed by
	// a deeper line. Only checked in strict mode.
	ExpectIndentAfter []string `json:"expect_indent_after,omitempty"`

	// SignificantWhitespace marks languages whose indentation is syntax.
	// Such files are never re-indented.
	SignificantWhitespace bool `json:"significant_whitespace,omitempty"`
}

// MarkersOf returns the markers of the given kinds, in profile order.
func (p *LexicalProfile) MarkersOf(kinds ...MarkerKind) []Marker {
	var out []Marker
	for _, m := range p.Markers {
		if slices.Contains(kinds, m.Kind) {
			out = append(out, m)
		}
	}
	return out
}

// LexicalMarkers returns the comment and string markers.
func (p *LexicalProfile) LexicalMarkers() []Marker {
	return p.MarkersOf(Comment, MultilineComment, String, MultilineString)
}

// StructuralMarkers returns the indent and bracket markers.
func (p *LexicalProfile) StructuralMarkers() []Marker {
	return p.MarkersOf(Indent, Bracket)
}

// SortMarkers orders markers longest opener first, then lexically, so that
// scanning prefers the longest match and output is deterministic.
func SortMarkers(markers []Marker) {
	slices.SortStableFunc(markers, func(a, b Marker) int {
		if c := cmp.Compare(len(b.Open), len(a.Open)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Open, b.Open); c != 0 {
			return c
		}
		return cmp.Compare(a.Kind, b.Kind)
	})
}

// IsWordByte reports whether b is part of an identifier.
func IsWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || b >= 0x80
}

// IsKeyword reports whether s starts or ends with a word character.
func IsKeyword(s string) bool {
	return s != "" && (IsWordByte(s[0]) || IsWordByte(s[len(s)-1]))
}

// AtBoundary reports whether text[start:end] is a full token: a word
// character at either end of the match must not touch another word
// character outside it.
func AtBoundary(text string, start, end int) bool {
	if start > 0 && IsWordByte(text[start]) && IsWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && IsWordByte(text[end-1]) && IsWordByte(text[end]) {
		return false
	}
	return true
}
