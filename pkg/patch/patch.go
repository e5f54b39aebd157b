// Package patch renders corrections as unified diffs and applies them back.
package patch

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/go-diff/diff"
)

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 3

// Unified renders the line-by-line replacement of original by corrected as
// a unified diff. Both versions must have the same number of lines.
// It returns "" when nothing changed.
func Unified(name string, original, corrected []string, context int) (string, error) {
	if len(original) != len(corrected) {
		return "", errors.Newf("%s: corrected file has %d lines, original has %d", name, len(corrected), len(original))
	}

	hunks := Hunks(original, corrected, context)
	if len(hunks) == 0 {
		return "", nil
	}

	fd := &diff.FileDiff{
		OrigName: "a/" + name,
		NewName:  "b/" + name,
		Hunks:    hunks,
	}
	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return "", errors.Wrapf(err, "printing diff for %s", name)
	}
	return string(out), nil
}

// Hunks groups the changed lines into hunks, merging changes that are
// within 2*context lines of each other.
func Hunks(original, corrected []string, context int) []*diff.Hunk {
	context = max(context, 0)

	var changed []int
	for i := range original {
		if original[i] != corrected[i] {
			changed = append(changed, i)
		}
	}

	var hunks []*diff.Hunk
	for k := 0; k < len(changed); {
		first, last := changed[k], changed[k]
		k++
		for k < len(changed) && changed[k]-last-1 <= 2*context {
			last = changed[k]
			k++
		}

		lo := max(first-context, 0)
		hi := min(last+context, len(original)-1)
		hunks = append(hunks, buildHunk(original, corrected, lo, hi))
	}
	return hunks
}

func buildHunk(original, corrected []string, lo, hi int) *diff.Hunk {
	var body strings.Builder
	for i := lo; i <= hi; {
		if original[i] == corrected[i] {
			body.WriteString(" " + terminated(original[i]))
			i++
			continue
		}
		j := i
		for j <= hi && original[j] != corrected[j] {
			j++
		}
		for _, l := range original[i:j] {
			body.WriteString("-" + terminated(l))
		}
		for _, l := range corrected[i:j] {
			body.WriteString("+" + terminated(l))
		}
		i = j
	}

	n := int32(hi - lo + 1)
	return &diff.Hunk{
		OrigStartLine: int32(lo + 1),
		OrigLines:     n,
		NewStartLine:  int32(lo + 1),
		NewLines:      n,
		Body:          []byte(body.String()),
	}
}

// Apply applies a single-file unified diff to original. Context and removed
// lines must match exactly, apart from line terminators.
func Apply(original []string, patchText string) ([]string, error) {
	fd, err := diff.ParseFileDiff([]byte(patchText))
	if err != nil {
		return nil, errors.Wrap(err, "parsing patch")
	}

	out := make([]string, 0, len(original))
	cur := 0
	for _, h := range fd.Hunks {
		start := int(h.OrigStartLine) - 1
		if h.OrigLines == 0 {
			start++
		}
		if start < cur || start > len(original) {
			return nil, errors.Newf("hunk at line %d is out of order or past the end of the file", h.OrigStartLine)
		}
		out = append(out, original[cur:start]...)
		cur = start

		// Line endings of removed lines not yet paired with an addition.
		var removed []string
		for _, bl := range strings.SplitAfter(string(h.Body), "\n") {
			if bl == "" {
				continue
			}
			tag, text := bl[0], strings.TrimSuffix(bl[1:], "\n")
			switch tag {
			case ' ', '-':
				if cur >= len(original) || trimEOL(original[cur]) != trimEOL(text) {
					return nil, errors.Newf("hunk at line %d does not apply: line %d differs", h.OrigStartLine, cur+1)
				}
				if tag == ' ' {
					out = append(out, original[cur])
					removed = removed[:0]
				} else {
					removed = append(removed, terminatorOf(original[cur]))
				}
				cur++
			case '+':
				// The parsed body has lost any "\r", so the terminator
				// comes from the original line being replaced.
				eol := terminatorNear(original, cur)
				if len(removed) > 0 {
					eol, removed = removed[0], removed[1:]
				}
				out = append(out, trimEOL(text)+eol)
			}
		}
	}
	out = append(out, original[cur:]...)

	if n := len(original); n > 0 && !strings.HasSuffix(original[n-1], "\n") && len(out) > 0 {
		out[len(out)-1] = trimEOL(out[len(out)-1])
	}
	return out, nil
}

// FilePatch is the part of a multi-file diff that touches one file.
type FilePatch struct {
	Name string // target path without the "b/" prefix
	Text string
}

// Split separates a multi-file unified diff, like the output of
// `bearkit fix --diff`, into single-file patches for Apply.
func Split(patchText string) ([]FilePatch, error) {
	fds, err := diff.ParseMultiFileDiff([]byte(patchText))
	if err != nil {
		return nil, errors.Wrap(err, "parsing patch")
	}
	out := make([]FilePatch, 0, len(fds))
	for _, fd := range fds {
		text, err := diff.PrintFileDiff(fd)
		if err != nil {
			return nil, errors.Wrapf(err, "printing diff for %s", fd.NewName)
		}
		out = append(out, FilePatch{
			Name: strings.TrimPrefix(fd.NewName, "b/"),
			Text: string(text),
		})
	}
	return out, nil
}

// Stat counts the lines a patch adds, changes and deletes.
func Stat(patchText string) (diff.Stat, error) {
	fd, err := diff.ParseFileDiff([]byte(patchText))
	if err != nil {
		return diff.Stat{}, errors.Wrap(err, "parsing patch")
	}
	return fd.Stat(), nil
}

func terminated(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// terminatorOf returns the line ending of line, "\n" when it has none.
func terminatorOf(line string) string {
	if strings.HasSuffix(line, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// terminatorNear returns the line ending of the original line just before
// i, or of line i itself, defaulting to "\n".
func terminatorNear(lines []string, i int) string {
	for _, j := range [2]int{i - 1, i} {
		if j >= 0 && j < len(lines) && strings.HasSuffix(lines[j], "\n") {
			return terminatorOf(lines[j])
		}
	}
	return "\n"
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}
