package nesting

import (
	"fmt"

	"github.com/bearkit/bearkit/pkg/types"
)

// UnmatchedIndentError reports opening and closing markers that do not
// pair up. Which fields are set depends on the failure:
//
//   - Found is empty: Open was never closed by Close before EOF, and
//     Position is where Open occurs.
//   - Found is set and Open is empty: the closer Found arrived with nothing
//     open.
//   - Found and Open are set: Found arrived while the innermost open marker
//     Open was waiting for Close.
type UnmatchedIndentError struct {
	Open     string
	Close    string
	Found    string
	Position *types.SourcePosition
}

func (e *UnmatchedIndentError) Error() string {
	var msg string
	switch {
	case e.Found == "":
		msg = fmt.Sprintf("%q is never closed, expected %q", e.Open, e.Close)
	case e.Open == "":
		msg = fmt.Sprintf("%q has no matching opener", e.Found)
	default:
		msg = fmt.Sprintf("found %q but %q expects %q", e.Found, e.Open, e.Close)
	}
	if e.Position == nil {
		return msg
	}
	return e.Position.String() + ": " + msg
}

// ExpectedIndentError reports a line that should introduce an indented
// block but is not followed by a deeper line.
type ExpectedIndentError struct {
	Line    int
	Pattern string
}

func (e *ExpectedIndentError) Error() string {
	return fmt.Sprintf("line %d: expected an indented block after a line matching %q", e.Line, e.Pattern)
}
