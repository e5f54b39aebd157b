// Package prefilter narrows a profile's marker table down to the markers
// that can occur in a given text.
package prefilter

import (
	"sync"

	"github.com/bearkit/bearkit/pkg/profile"
	"github.com/cloudflare/ahocorasick"
)

// Prefilter uses Aho-Corasick to find which marker strings occur in content
// with a single pass. It is safe for concurrent use.
type Prefilter struct {
	mu       sync.Mutex // ahocorasick.Matcher mutates its own state during Match
	matcher  *ahocorasick.Matcher
	keywords []string         // keyword at each index
	owners   map[string][]int // keyword -> indexes into markers
	markers  []profile.Marker
}

// New creates a prefilter from markers. A lexical marker is selected when
// its opener occurs; a structural marker when its opener or its closer
// occurs, since a stray closer is still significant.
func New(markers []profile.Marker) *Prefilter {
	pf := &Prefilter{
		owners:  make(map[string][]int),
		markers: markers,
	}

	add := func(keyword string, idx int) {
		if keyword == "" {
			return
		}
		if _, seen := pf.owners[keyword]; !seen {
			pf.keywords = append(pf.keywords, keyword)
		}
		pf.owners[keyword] = append(pf.owners[keyword], idx)
	}
	for i, m := range markers {
		add(m.Open, i)
		if !m.Kind.Lexical() {
			add(m.Close, i)
		}
	}

	if len(pf.keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	}
	return pf
}

// Filter returns the markers that might match content, in their original
// order.
func (pf *Prefilter) Filter(content []byte) []profile.Marker {
	if pf.matcher == nil {
		return nil
	}

	pf.mu.Lock()
	hits := pf.matcher.Match(content)
	pf.mu.Unlock()

	selected := make([]bool, len(pf.markers))
	for _, hit := range hits {
		for _, idx := range pf.owners[pf.keywords[hit]] {
			selected[idx] = true
		}
	}

	result := make([]profile.Marker, 0, len(hits))
	for i, m := range pf.markers {
		if selected[i] {
			result = append(result, m)
		}
	}
	return result
}
