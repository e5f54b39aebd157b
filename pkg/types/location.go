package types

import "fmt"

// OffsetSpan is byte range [Start, End) - half-open interval.
type OffsetSpan struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s OffsetSpan) Len() int64 {
	return s.End - s.Start
}

// Contains reports whether offset lies inside the span.
func (s OffsetSpan) Contains(offset int64) bool {
	return offset >= s.Start && offset < s.End
}

// SourcePosition is a line:column position (1-based).
// Column counts runes from the start of the line; 0 means no column.
type SourcePosition struct {
	Line   int `json:"line"`
	Column int `json:"column,omitempty"`
}

// Compare orders positions by line, then column.
func (p SourcePosition) Compare(o SourcePosition) int {
	switch {
	case p.Line < o.Line:
		return -1
	case p.Line > o.Line:
		return 1
	case p.Column < o.Column:
		return -1
	case p.Column > o.Column:
		return 1
	}
	return 0
}

func (p SourcePosition) String() string {
	if p.Column == 0 {
		return fmt.Sprintf("%d", p.Line)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SourceRange is a closed start-end range inside one file.
// End is the position of the last character in the range.
type SourceRange struct {
	File   string         `json:"file,omitempty"`
	Start  SourcePosition `json:"start"`
	End    SourcePosition `json:"end"`
	Offset OffsetSpan     `json:"offset"`
}

// NewSourceRange builds a range, swapping the ends if they are out of order.
func NewSourceRange(file string, start, end SourcePosition, offset OffsetSpan) SourceRange {
	if start.Compare(end) > 0 {
		start, end = end, start
	}
	if offset.Start > offset.End {
		offset.Start, offset.End = offset.End, offset.Start
	}
	return SourceRange{File: file, Start: start, End: end, Offset: offset}
}

// Overlaps reports whether the byte spans of r and o intersect.
func (r SourceRange) Overlaps(o SourceRange) bool {
	return r.Offset.Start < o.Offset.End && o.Offset.Start < r.Offset.End
}

// SpansLines reports whether the range covers more than one line.
func (r SourceRange) SpansLines() bool {
	return r.Start.Line != r.End.Line
}

func (r SourceRange) String() string {
	if r.File == "" {
		return fmt.Sprintf("%s-%s", r.Start, r.End)
	}
	return fmt.Sprintf("%s:%s-%s", r.File, r.Start, r.End)
}
