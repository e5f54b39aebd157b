// Package enum discovers the source files to analyze.
package enum

import (
	"context"

	"github.com/bearkit/bearkit/pkg/types"
)

// Callback receives blob content, its ID, and provenance information. It
// may be called from several goroutines at once.
type Callback func(content []byte, blobID types.BlobID, prov types.Provenance) error

// Enumerator discovers content to analyze from a source.
type Enumerator interface {
	// Enumerate yields blobs from the source.
	Enumerate(ctx context.Context, callback Callback) error
}

// Config for enumeration.
type Config struct {
	// Root is the starting path for enumeration.
	Root string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks follows symbolic links.
	FollowSymlinks bool

	// Exclude holds extra gitignore-style patterns, matched relative to Root.
	Exclude []string

	// Workers is the number of parallel file readers (0 = NumCPU).
	Workers int
}
