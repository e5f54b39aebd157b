package classify

import (
	"fmt"

	"github.com/bearkit/bearkit/pkg/types"
)

// UnterminatedEscapeError reports a string or comment whose closer never
// arrives. Range covers the opening marker.
type UnterminatedEscapeError struct {
	Marker string
	Close  string
	Range  types.SourceRange
}

func (e *UnterminatedEscapeError) Error() string {
	return fmt.Sprintf("%s: %q is never closed, expected %q", e.Range.Start, e.Marker, e.Close)
}
