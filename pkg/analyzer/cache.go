package analyzer

import (
	"github.com/bearkit/bearkit/pkg/classify"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheKey struct {
	blob    types.BlobID
	profile string
}

// cacheEntry is a classification result with the file name stripped, so
// identical content under another path can reuse it.
type cacheEntry struct {
	ranges types.ClassifiedRanges
	err    *classify.UnterminatedEscapeError
}

// rangeCache memoizes classification by content and profile. A nil
// rangeCache caches nothing.
type rangeCache struct {
	lru *lru.Cache[cacheKey, cacheEntry]
}

func newRangeCache(size int) (*rangeCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[cacheKey, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &rangeCache{lru: c}, nil
}

// classify returns the cached result for key, or computes and stores it.
func (c *rangeCache) classify(key cacheKey, file string, compute func() (types.ClassifiedRanges, error)) (types.ClassifiedRanges, error) {
	if c != nil {
		if e, ok := c.lru.Get(key); ok {
			return e.restore(file)
		}
	}

	ranges, err := compute()
	var unterminated *classify.UnterminatedEscapeError
	if err != nil && !errors.As(err, &unterminated) {
		return ranges, err
	}
	if c != nil {
		c.lru.Add(key, newCacheEntry(ranges, unterminated))
	}
	return ranges, err
}

func newCacheEntry(ranges types.ClassifiedRanges, err *classify.UnterminatedEscapeError) cacheEntry {
	e := cacheEntry{ranges: withFile(ranges, "")}
	if err != nil {
		cp := *err
		cp.Range.File = ""
		e.err = &cp
	}
	return e
}

func (e cacheEntry) restore(file string) (types.ClassifiedRanges, error) {
	ranges := withFile(e.ranges, file)
	if e.err == nil {
		return ranges, nil
	}
	cp := *e.err
	cp.Range.File = file
	return ranges, &cp
}

// withFile copies ranges, setting File on each.
func withFile(in types.ClassifiedRanges, file string) types.ClassifiedRanges {
	stamp := func(rs []types.SourceRange) []types.SourceRange {
		out := make([]types.SourceRange, len(rs))
		for i, r := range rs {
			r.File = file
			out[i] = r
		}
		return out
	}
	return types.ClassifiedRanges{
		Strings:  stamp(in.Strings),
		Comments: stamp(in.Comments),
	}
}
