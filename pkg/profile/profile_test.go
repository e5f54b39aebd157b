package profile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkerKind(t *testing.T) {
	assert.Equal(t, "multiline_string", MultilineString.String())
	assert.Equal(t, "unknown", MarkerKind(42).String())
	assert.True(t, Comment.Lexical())
	assert.False(t, Bracket.Lexical())
	assert.True(t, MultilineComment.IsComment())
	assert.True(t, MultilineString.Multiline())
	assert.False(t, String.Multiline())

	b, err := json.Marshal(Marker{Kind: Bracket, Open: "(", Close: ")"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"kind":"bracket","open":"(","close":")"}`, string(b))
}

func TestSortMarkers(t *testing.T) {
	markers := []Marker{
		{Kind: String, Open: `"`, Close: `"`},
		{Kind: Comment, Open: "#"},
		{Kind: MultilineString, Open: `"""`, Close: `"""`},
	}
	SortMarkers(markers)
	assert.Equal(t, `"""`, markers[0].Open)
	assert.Equal(t, `"`, markers[1].Open)
	assert.Equal(t, "#", markers[2].Open)
}

func TestAtBoundary(t *testing.T) {
	tests := []struct {
		text       string
		start, end int
		want       bool
	}{
		{text: "do x", start: 0, end: 2, want: true},
		{text: "undo", start: 2, end: 4, want: false},
		{text: "done", start: 0, end: 2, want: false},
		{text: "(do)", start: 1, end: 3, want: true},
		{text: "a{b", start: 1, end: 2, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, AtBoundary(tt.text, tt.start, tt.end))
		})
	}
	assert.True(t, IsKeyword("end"))
	assert.True(t, IsKeyword("=begin"))
	assert.False(t, IsKeyword("{"))
}

func TestLexicalProfile_MarkersOf(t *testing.T) {
	p := &LexicalProfile{Markers: []Marker{
		{Kind: Comment, Open: "#"},
		{Kind: Indent, Open: "{", Close: "}"},
		{Kind: Bracket, Open: "(", Close: ")"},
	}}
	assert.Len(t, p.LexicalMarkers(), 1)
	assert.Len(t, p.StructuralMarkers(), 2)
	assert.Equal(t, []Marker{{Kind: Bracket, Open: "(", Close: ")"}}, p.MarkersOf(Bracket))
}
