package enum

import (
	"context"
	"io"
	"os"

	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
)

// FileEnumerator yields an explicit list of files. Unlike a directory walk
// it does not apply hidden-file or ignore rules: a file named on the
// command line is always analyzed. Binary files are still skipped.
type FileEnumerator struct {
	paths   []string
	workers int
}

// NewFileEnumerator creates an enumerator over paths.
func NewFileEnumerator(workers int, paths ...string) *FileEnumerator {
	return &FileEnumerator{paths: paths, workers: workers}
}

// Enumerate reads each file and invokes callback.
func (e *FileEnumerator) Enumerate(ctx context.Context, callback Callback) error {
	return readAll(ctx, e.paths, e.workers, func(ctx context.Context, path string) error {
		return processFile(ctx, path, callback)
	})
}

// ReaderEnumerator yields a single blob read from r, typically stdin.
type ReaderEnumerator struct {
	r    io.Reader
	name string
}

// NewReaderEnumerator creates an enumerator over r. name is reported as
// the path and used for profile detection; it may be empty.
func NewReaderEnumerator(r io.Reader, name string) *ReaderEnumerator {
	return &ReaderEnumerator{r: r, name: name}
}

// Enumerate reads r to EOF and invokes callback once.
func (e *ReaderEnumerator) Enumerate(ctx context.Context, callback Callback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	content, err := io.ReadAll(e.r)
	if err != nil {
		return errors.Wrap(err, "reading input")
	}
	return callback(content, types.ComputeBlobID(content), types.StdinProvenance{Name: e.name})
}

// ForPaths builds the enumerator for command-line arguments: directories
// are walked with base as their config, files are read as-is. "-" reads
// stdin.
func ForPaths(base Config, args []string, stdin io.Reader, stdinName string) (Enumerator, error) {
	var (
		enums []Enumerator
		files []string
	)
	for _, arg := range args {
		if arg == "-" {
			enums = append(enums, NewReaderEnumerator(stdin, stdinName))
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot analyze %s", arg)
		}
		if info.IsDir() {
			cfg := base
			cfg.Root = arg
			enums = append(enums, NewFilesystemEnumerator(cfg))
			continue
		}
		files = append(files, arg)
	}
	if len(files) > 0 {
		enums = append(enums, NewFileEnumerator(base.Workers, files...))
	}
	if len(enums) == 1 {
		return enums[0], nil
	}
	return NewCombinedEnumerator(enums...), nil
}
