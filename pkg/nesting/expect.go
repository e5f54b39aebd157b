package nesting

import (
	"strings"
	"time"

	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	"github.com/dlclark/regexp2"
	"github.com/mattn/go-runewidth"
)

const (
	matchTimeout = time.Second
	tabWidth     = 8
)

// CheckExpectedIndents reports every line that matches one of patterns but
// is not followed by a more deeply indented line. Lines starting inside a
// string or comment are skipped. The returned error is only set when a
// pattern fails to compile or times out.
func CheckExpectedIndents(lines []string, ranges types.ClassifiedRanges, patterns []string) ([]*ExpectedIndentError, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	regexes := make([]*regexp2.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp2.Compile(p, regexp2.None)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", p)
		}
		re.MatchTimeout = matchTimeout
		regexes[i] = re
	}

	prepared := PrepareLines(lines, ranges, nil)
	var found []*ExpectedIndentError
	for i, ln := range prepared {
		if ln.StartEscape != nil || isBlank(ln.Text) {
			continue
		}
		body := strings.TrimRight(ln.Text, "\r\n")
		for k, re := range regexes {
			ok, err := re.MatchString(body)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: matching %q", ln.Number, patterns[k])
			}
			if !ok {
				continue
			}
			if next := nextNonBlank(lines, i+1); next < 0 || indentWidth(lines[next]) <= indentWidth(ln.Text) {
				found = append(found, &ExpectedIndentError{Line: ln.Number, Pattern: patterns[k]})
			}
			break
		}
	}
	return found, nil
}

func nextNonBlank(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if !isBlank(lines[i]) {
			return i
		}
	}
	return -1
}

// indentWidth is the display width of the leading whitespace, with tabs
// advancing to the next tab stop.
func indentWidth(line string) int {
	return advance(0, leadingSpace(line))
}

// advance returns the display column reached after writing s starting at
// column col.
func advance(col int, s string) int {
	for _, r := range s {
		if r == '\t' {
			col += tabWidth - col%tabWidth
			continue
		}
		col += runewidth.RuneWidth(r)
	}
	return col
}
