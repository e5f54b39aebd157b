package types

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// LineIndex maps byte offsets of a text to 1-based line:column positions.
// Columns count runes, not bytes.
type LineIndex struct {
	text   string
	starts []int // byte offset where each line begins
}

// NewLineIndex indexes text by line starts.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

// JoinLines concatenates lines that already carry their own terminators.
func JoinLines(lines []string) string {
	var sb strings.Builder
	n := 0
	for _, l := range lines {
		n += len(l)
	}
	sb.Grow(n)
	for _, l := range lines {
		sb.WriteString(l)
	}
	return sb.String()
}

// SplitLines splits text after every '\n', keeping terminators.
// A trailing fragment without terminator is kept as the last line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Text returns the indexed text.
func (idx *LineIndex) Text() string {
	return idx.text
}

// LineCount returns the number of lines, counting a trailing unterminated one.
func (idx *LineIndex) LineCount() int {
	if len(idx.starts) > 1 && idx.starts[len(idx.starts)-1] == len(idx.text) {
		return len(idx.starts) - 1
	}
	return len(idx.starts)
}

// LineStart returns the byte offset where the 1-based line begins.
func (idx *LineIndex) LineStart(line int) int {
	if line < 1 {
		return 0
	}
	if line > len(idx.starts) {
		return len(idx.text)
	}
	return idx.starts[line-1]
}

// Position computes the position of the character at byteOffset.
// Offsets beyond the text clamp to one past its last character.
func (idx *LineIndex) Position(byteOffset int) SourcePosition {
	if byteOffset < 0 {
		byteOffset = 0
	}
	if byteOffset > len(idx.text) {
		byteOffset = len(idx.text)
	}
	line := sort.Search(len(idx.starts), func(i int) bool {
		return idx.starts[i] > byteOffset
	})
	start := idx.starts[line-1]
	return SourcePosition{
		Line:   line,
		Column: utf8.RuneCountInString(idx.text[start:byteOffset]) + 1,
	}
}

// Range builds a closed SourceRange for the half-open byte span [start, end).
func (idx *LineIndex) Range(file string, start, end int) SourceRange {
	last := end
	if end > start {
		_, size := utf8.DecodeLastRuneInString(idx.text[start:end])
		last = end - size
	}
	return SourceRange{
		File:   file,
		Start:  idx.Position(start),
		End:    idx.Position(last),
		Offset: OffsetSpan{Start: int64(start), End: int64(end)},
	}
}

// Offset is the inverse of Position: the byte offset of pos, clamped to
// the end of its line.
func (idx *LineIndex) Offset(pos SourcePosition) int {
	start := idx.LineStart(pos.Line)
	end := len(idx.text)
	if pos.Line >= 1 && pos.Line < len(idx.starts) {
		end = idx.starts[pos.Line] - 1
	}
	off := start
	for col := 1; col < pos.Column && off < end; col++ {
		_, size := utf8.DecodeRuneInString(idx.text[off:end])
		off += size
	}
	return off
}
