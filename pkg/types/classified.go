package types

import "sort"

// ClassifiedRanges holds the string and comment ranges of one file, each in
// file order. Ranges never overlap within or across the two lists.
type ClassifiedRanges struct {
	Strings  []SourceRange `json:"strings"`
	Comments []SourceRange `json:"comments"`
}

// All returns strings and comments merged into file order.
func (c ClassifiedRanges) All() []SourceRange {
	all := make([]SourceRange, 0, len(c.Strings)+len(c.Comments))
	all = append(all, c.Strings...)
	all = append(all, c.Comments...)
	sort.Slice(all, func(i, j int) bool {
		return all[i].Offset.Start < all[j].Offset.Start
	})
	return all
}

// Contains reports whether the byte at offset lies inside any range.
func (c ClassifiedRanges) Contains(offset int64) bool {
	return containsOffset(c.Strings, offset) || containsOffset(c.Comments, offset)
}

// Empty reports whether nothing was classified.
func (c ClassifiedRanges) Empty() bool {
	return len(c.Strings) == 0 && len(c.Comments) == 0
}

func containsOffset(ranges []SourceRange, offset int64) bool {
	i := sort.Search(len(ranges), func(i int) bool {
		return ranges[i].Offset.End > offset
	})
	return i < len(ranges) && ranges[i].Offset.Contains(offset)
}
