// Package nesting tracks nested opening and closing markers across a file
// to re-derive indentation and to find balanced block ranges.
package nesting

import (
	"slices"
	"strings"

	"github.com/bearkit/bearkit/pkg/profile"
	"github.com/bearkit/bearkit/pkg/types"
)

// Step advances state over one line. It does not modify state, so a scan
// can be resumed or replayed from any earlier state.
//
// Closers must match the innermost open marker; anything else is an
// *UnmatchedIndentError. Each closer at the start of the line that closes
// an indent marker lowers the line's own level by one.
func Step(state IndentState, line Line) (IndentState, LinePlan, error) {
	next := IndentState{
		Level:      state.Level + state.PendingDelta,
		OpenEscape: line.StartEscape,
		Stack:      slices.Clone(state.Stack),
	}
	plan := LinePlan{
		Number:   line.Number,
		Verbatim: line.StartEscape != nil || isBlank(line.Text),
		Level:    next.Level,
	}
	if n := len(next.Stack); n > 0 && next.Stack[n-1].Marker.Kind == profile.Bracket {
		top := next.Stack[n-1]
		plan.Align = &Alignment{Line: top.Line, Index: top.Index, Width: len(top.Marker.Open)}
	}

	before := next.indentDepth()
	leading := true
	expect := len(leadingSpace(line.Text))
	for k, tok := range line.Tokens {
		if leading && (!tok.Closing || strings.TrimSpace(line.Text[expect:tok.Index]) != "") {
			leading = false
		}
		expect = tok.Index + len(tok.Text)
		pos := types.SourcePosition{Line: line.Number, Column: tok.Column}

		if !tok.Closing {
			next.Stack = append(next.Stack, OpenMarker{
				Marker: tok.Marker,
				Offset: line.Offset + tok.Index,
				Line:   line.Number,
				Index:  tok.Index,
				Column: tok.Column,
				Depth:  len(next.Stack),
			})
			continue
		}

		n := len(next.Stack)
		if n == 0 {
			return state, plan, &UnmatchedIndentError{Found: tok.Text, Position: &pos}
		}
		top := next.Stack[n-1]
		if top.Marker.Close != tok.Text {
			return state, plan, &UnmatchedIndentError{
				Open:     top.Marker.Open,
				Close:    top.Marker.Close,
				Found:    tok.Text,
				Position: &pos,
			}
		}
		next.Stack = next.Stack[:n-1]
		plan.Pairs = append(plan.Pairs, Pair{
			Open:        top,
			Close:       tok.Text,
			CloseOffset: line.Offset + tok.Index,
			CloseLine:   line.Number,
			CloseColumn: tok.Column,
		})

		if leading {
			switch {
			case top.Marker.Kind != profile.Bracket:
				plan.Level--
			case k == 0 && plan.Align != nil:
				plan.Align.Closed = true
			}
		}
	}

	next.PendingDelta = next.indentDepth() - before
	return next, plan, nil
}

// Track folds Step over every line. It fails with *UnmatchedIndentError on
// the first closer that does not fit, or at EOF when markers remain open.
func Track(lines []string, ranges types.ClassifiedRanges, markers []profile.Marker) ([]LinePlan, error) {
	plans, _, err := fold(PrepareLines(lines, ranges, markers))
	return plans, err
}

func fold(lines []Line) ([]LinePlan, IndentState, error) {
	var state IndentState
	plans := make([]LinePlan, 0, len(lines))
	for _, ln := range lines {
		var (
			plan LinePlan
			err  error
		)
		state, plan, err = Step(state, ln)
		if err != nil {
			return nil, state, err
		}
		plans = append(plans, plan)
	}

	if n := len(state.Stack); n > 0 {
		top := state.Stack[n-1]
		pos := top.Position()
		return nil, state, &UnmatchedIndentError{
			Open:     top.Marker.Open,
			Close:    top.Marker.Close,
			Position: &pos,
		}
	}
	return plans, state, nil
}
