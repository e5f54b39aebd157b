package enum

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/bearkit/bearkit/pkg/types"
)

// CombinedEnumerator runs multiple enumerators sequentially and yields each
// path at most once, so a file named twice (or named and also inside a
// walked directory) is analyzed once.
type CombinedEnumerator struct {
	enumerators []Enumerator
}

// NewCombinedEnumerator creates a CombinedEnumerator that wraps the provided
// enumerators. They are run in order.
func NewCombinedEnumerator(enumerators ...Enumerator) *CombinedEnumerator {
	return &CombinedEnumerator{enumerators: enumerators}
}

// Enumerate runs each child enumerator in sequence, passing blobs with a
// path not seen before to callback. Identical content at different paths
// is yielded once per path.
func (c *CombinedEnumerator) Enumerate(ctx context.Context, callback Callback) error {
	var mu sync.Mutex
	seen := make(map[string]bool)

	for _, e := range c.enumerators {
		err := e.Enumerate(ctx, func(content []byte, blobID types.BlobID, prov types.Provenance) error {
			key := prov.Kind() + ":" + filepath.Clean(prov.Path())
			mu.Lock()
			if seen[key] {
				mu.Unlock()
				return nil
			}
			seen[key] = true
			mu.Unlock()

			return callback(content, blobID, prov)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
