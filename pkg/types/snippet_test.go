package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSnippet(t *testing.T) {
	lines := []string{"a\n", "b\n", "c\n", "d\n", "e"}

	tests := []struct {
		name    string
		r       SourceRange
		context int
		want    Snippet
	}{
		{
			name:    "middle line with context",
			r:       SourceRange{Start: SourcePosition{Line: 3, Column: 1}, End: SourcePosition{Line: 3, Column: 1}},
			context: 1,
			want:    Snippet{Before: []string{"b"}, Matching: []string{"c"}, After: []string{"d"}, Line: 3},
		},
		{
			name:    "first line clamps before",
			r:       SourceRange{Start: SourcePosition{Line: 1}, End: SourcePosition{Line: 2}},
			context: 2,
			want:    Snippet{Matching: []string{"a", "b"}, After: []string{"c", "d"}, Line: 1},
		},
		{
			name:    "last line without terminator",
			r:       SourceRange{Start: SourcePosition{Line: 5}, End: SourcePosition{Line: 9}},
			context: 0,
			want:    Snippet{Matching: []string{"e"}, Line: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSnippet(lines, tt.r, tt.context))
		})
	}
}

func TestExtractSnippet_Empty(t *testing.T) {
	assert.Equal(t, Snippet{}, ExtractSnippet(nil, SourceRange{Start: SourcePosition{Line: 1}}, 3))
	assert.Equal(t, Snippet{}, ExtractSnippet([]string{"x"}, SourceRange{}, 3))
}
