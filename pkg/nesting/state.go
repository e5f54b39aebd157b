package nesting

import (
	"github.com/bearkit/bearkit/pkg/profile"
	"github.com/bearkit/bearkit/pkg/types"
)

// Escape is the string or comment a line starts inside of.
// Marker is empty when the opener is not among the known markers.
type Escape struct {
	Marker string
	Close  string
}

// OpenMarker is an opener still waiting for its closer.
type OpenMarker struct {
	Marker profile.Marker
	Offset int // byte offset in the file
	Line   int
	Index  int // byte index within its line
	Column int // rune column within its line, 1-based
	Depth  int // number of markers open around it
}

// Position returns where the opener occurs.
func (o OpenMarker) Position() types.SourcePosition {
	return types.SourcePosition{Line: o.Line, Column: o.Column}
}

// IndentState is the scan state between two lines. The zero value is the
// state at the top of a file.
type IndentState struct {
	// Level is the number of indent markers open at the start of the line.
	Level int
	// PendingDelta is the net change to Level made by the last line.
	PendingDelta int
	// OpenEscape is set while the line starts inside a string or comment.
	OpenEscape *Escape
	// Stack holds open markers, innermost last.
	Stack []OpenMarker
}

// Brackets returns the open bracket markers, innermost last.
func (s IndentState) Brackets() []OpenMarker {
	var out []OpenMarker
	for _, o := range s.Stack {
		if o.Marker.Kind == profile.Bracket {
			out = append(out, o)
		}
	}
	return out
}

func (s IndentState) indentDepth() int {
	n := 0
	for _, o := range s.Stack {
		if o.Marker.Kind != profile.Bracket {
			n++
		}
	}
	return n
}

// Token is one structural marker occurrence outside strings and comments.
type Token struct {
	Text    string
	Marker  profile.Marker
	Closing bool
	Index   int // byte index within the line
	Column  int // rune column within the line, 1-based
}

// Line is one input line with its markers already located.
type Line struct {
	Number      int
	Text        string // including terminator
	Offset      int    // byte offset of the line in the file
	StartEscape *Escape
	Tokens      []Token
}

// Alignment places a line relative to an open bracket: one column past it,
// or at the bracket line's own indentation when the line starts by closing
// the bracket.
type Alignment struct {
	Line   int // line of the bracket
	Index  int // byte index of the bracket within that line
	Width  int // byte length of the bracket marker
	Closed bool
}

// Pair is an opener together with the closer that resolved it.
type Pair struct {
	Open        OpenMarker
	Close       string
	CloseOffset int
	CloseLine   int
	CloseColumn int
}

// LinePlan says how one line is laid out in the corrected output.
type LinePlan struct {
	Number int
	// Verbatim lines keep their text: they start inside a string or
	// comment, or hold only whitespace.
	Verbatim bool
	// Level is the depth the line is indented to.
	Level int
	// Align overrides Level when the line continues an open bracket.
	Align *Alignment
	// Pairs closed on this line, in closing order.
	Pairs []Pair
}
