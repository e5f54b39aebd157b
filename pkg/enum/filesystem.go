package enum

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	gitignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"
)

// FilesystemEnumerator enumerates files from a filesystem directory.
type FilesystemEnumerator struct {
	config Config
}

// NewFilesystemEnumerator creates a new filesystem enumerator.
func NewFilesystemEnumerator(config Config) *FilesystemEnumerator {
	return &FilesystemEnumerator{config: config}
}

// Enumerate walks the filesystem and yields file blobs.
// Phase 1: Walk directory tree and collect eligible file paths (fast, sequential).
// Phase 2: Read files and invoke callback in parallel.
func (e *FilesystemEnumerator) Enumerate(ctx context.Context, callback Callback) error {
	ignores := e.ignoreMatchers()

	// Phase 1: Walk and collect eligible file paths
	var files []string
	err := filepath.Walk(e.config.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath, err := filepath.Rel(e.config.Root, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !e.config.IncludeHidden && isHidden(info.Name()) {
				return filepath.SkipDir
			}
			if relPath != "." && ignored(ignores, relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 && !e.config.FollowSymlinks {
			return nil
		}

		if !e.config.IncludeHidden && isHidden(info.Name()) {
			return nil
		}

		if e.config.MaxFileSize > 0 && info.Size() > e.config.MaxFileSize {
			return nil
		}

		if ignored(ignores, relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return err
	}

	return readAll(ctx, files, e.config.Workers, func(ctx context.Context, path string) error {
		return processFile(ctx, path, callback)
	})
}

// ignoreMatchers compiles Root/.gitignore and the configured excludes.
func (e *FilesystemEnumerator) ignoreMatchers() []*gitignore.GitIgnore {
	var out []*gitignore.GitIgnore
	gitignorePath := filepath.Join(e.config.Root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		if ignore, err := gitignore.CompileIgnoreFile(gitignorePath); err == nil {
			out = append(out, ignore)
		}
	}
	if len(e.config.Exclude) > 0 {
		out = append(out, gitignore.CompileIgnoreLines(e.config.Exclude...))
	}
	return out
}

func ignored(ignores []*gitignore.GitIgnore, relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, ig := range ignores {
		if ig.MatchesPath(relPath) {
			return true
		}
	}
	return false
}

// readAll runs fn over paths with a bounded pool of readers.
func readAll(ctx context.Context, paths []string, workers int, fn func(context.Context, string) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	origCtx := ctx
	g, ctx := errgroup.WithContext(ctx)
	pathsCh := make(chan string, workers*2)

	// Feed paths to readers
	g.Go(func() error {
		defer close(pathsCh)
		for _, p := range paths {
			select {
			case pathsCh <- p:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for range workers {
		g.Go(func() error {
			for p := range pathsCh {
				if err := fn(ctx, p); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// If the caller's context was cancelled but all goroutines finished
	// before noticing, propagate the cancellation.
	return origCtx.Err()
}

// processFile reads a single file and invokes the callback. Binary files
// are skipped.
func processFile(ctx context.Context, path string, callback Callback) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read file %s", path)
	}
	if isBinary(content) {
		return nil
	}

	return callback(content, types.ComputeBlobID(content), types.FileProvenance{FilePath: path})
}

// isHidden checks if a filename is hidden (starts with .).
// The special entries "." and ".." are NOT considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// isBinary detects if content is binary by checking first 8KB for null bytes.
func isBinary(content []byte) bool {
	checkSize := min(len(content), 8192)
	return bytes.IndexByte(content[:checkSize], 0) != -1
}
