package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func span(start, end int64) SourceRange {
	return SourceRange{Offset: OffsetSpan{Start: start, End: end}}
}

func TestClassifiedRanges(t *testing.T) {
	c := ClassifiedRanges{
		Strings:  []SourceRange{span(2, 5), span(20, 24)},
		Comments: []SourceRange{span(10, 15)},
	}

	assert.False(t, c.Empty())
	assert.True(t, ClassifiedRanges{}.Empty())

	all := c.All()
	assert.Equal(t, []SourceRange{span(2, 5), span(10, 15), span(20, 24)}, all)

	for _, off := range []int64{2, 4, 10, 14, 23} {
		assert.True(t, c.Contains(off), "offset %d", off)
	}
	for _, off := range []int64{0, 5, 9, 15, 24} {
		assert.False(t, c.Contains(off), "offset %d", off)
	}
}
