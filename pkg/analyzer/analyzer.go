// Package analyzer runs the token classifier and nesting tracker over
// files and turns their results into diagnostics.
package analyzer

import (
	"fmt"
	"sync"

	"github.com/bearkit/bearkit/pkg/classify"
	"github.com/bearkit/bearkit/pkg/logger"
	"github.com/bearkit/bearkit/pkg/nesting"
	"github.com/bearkit/bearkit/pkg/patch"
	"github.com/bearkit/bearkit/pkg/profile"
	"github.com/bearkit/bearkit/pkg/store"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const (
	DefaultCacheSize      = 1024
	DefaultSnippetContext = 2
)

// Config configures an Analyzer.
type Config struct {
	// Registry resolves and detects profiles. Required.
	Registry *profile.Registry

	// Indent controls corrected indentation.
	Indent nesting.Options

	// Strict enables the expected-indent check.
	Strict bool

	// Disabled checks produce no diagnostics.
	Disabled map[types.Check]bool

	// CacheSize bounds the classification cache; 0 disables it.
	CacheSize int

	// SnippetContext and PatchContext are lines of context around
	// diagnostics and in patches. 0 selects the default, negative none.
	SnippetContext int
	PatchContext   int

	// Workers is the number of files analyzed in parallel by AnalyzeAll
	// (0 = GOMAXPROCS).
	Workers int

	// Store, if set, receives every blob, provenance and diagnostic.
	Store store.Store

	// Incremental skips blobs already present in Store.
	Incremental bool

	Logger *zap.Logger
}

// Analyzer checks files. It is safe for concurrent use.
type Analyzer struct {
	cfg   Config
	log   *zap.Logger
	cache *rangeCache

	mu          sync.Mutex
	classifiers map[string]*classify.Classifier
}

// New creates an Analyzer.
func New(cfg Config) (*Analyzer, error) {
	if cfg.Registry == nil {
		return nil, errors.New("analyzer: a profile registry is required")
	}
	if cfg.Incremental && cfg.Store == nil {
		return nil, errors.New("analyzer: incremental mode needs a store")
	}
	cfg.SnippetContext = contextOrDefault(cfg.SnippetContext, DefaultSnippetContext)
	cfg.PatchContext = contextOrDefault(cfg.PatchContext, patch.DefaultContext)

	cache, err := newRangeCache(cfg.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "creating classification cache")
	}

	return &Analyzer{
		cfg:         cfg,
		log:         logger.OrNop(cfg.Logger),
		cache:       cache,
		classifiers: make(map[string]*classify.Classifier),
	}, nil
}

func contextOrDefault(n, def int) int {
	switch {
	case n == 0:
		return def
	case n < 0:
		return 0
	}
	return n
}

// Registry returns the profile registry.
func (a *Analyzer) Registry() *profile.Registry {
	return a.cfg.Registry
}

func (a *Analyzer) enabled(c types.Check) bool {
	return !a.cfg.Disabled[c]
}

// classifier returns the memoized classifier for p.
func (a *Analyzer) classifier(p *profile.LexicalProfile) *classify.Classifier {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.classifiers[p.ID]
	if !ok {
		c = classify.New(p)
		a.classifiers[p.ID] = c
	}
	return c
}

// Classify returns the string and comment ranges of lines.
func (a *Analyzer) Classify(path string, lines []string, p *profile.LexicalProfile) (types.ClassifiedRanges, error) {
	return a.classifyBlob(types.ComputeBlobID([]byte(types.JoinLines(lines))), path, lines, p)
}

func (a *Analyzer) classifyBlob(blob types.BlobID, path string, lines []string, p *profile.LexicalProfile) (types.ClassifiedRanges, error) {
	key := cacheKey{blob: blob, profile: p.ID}
	return a.cache.classify(key, path, func() (types.ClassifiedRanges, error) {
		return a.classifier(p).Classify(path, lines)
	})
}

// AnalyzeFile detects the profile of path and analyzes content with it. A
// file no profile matches yields an unknown-profile diagnostic, not an
// error.
func (a *Analyzer) AnalyzeFile(path string, content []byte) (*FileReport, error) {
	p, err := a.cfg.Registry.Detect(path, content)
	if errors.Is(err, profile.ErrUnknownProfile) {
		a.log.Debug("no profile for file", zap.String("path", path))
		lines := types.SplitLines(string(content))
		rep := &FileReport{
			Path:     path,
			BlobID:   types.ComputeBlobID(content),
			Original: lines,
		}
		b := a.newBuilder(rep, lines)
		b.add(types.CheckUnknownProfile, b.lineRange(1), "no language profile matches this file")
		return b.finish(), nil
	}
	if err != nil {
		return nil, err
	}
	return a.AnalyzeFileAs(path, content, p)
}

// AnalyzeFileAs analyzes content with the given profile.
func (a *Analyzer) AnalyzeFileAs(path string, content []byte, p *profile.LexicalProfile) (*FileReport, error) {
	lines := types.SplitLines(string(content))
	blob := types.ComputeBlobID(content)
	rep := &FileReport{
		Path:     path,
		BlobID:   blob,
		Profile:  p.ID,
		Original: lines,
	}
	b := a.newBuilder(rep, lines)

	ranges, err := a.classifyBlob(blob, path, lines, p)
	rep.Classified = ranges
	var unterminated *classify.UnterminatedEscapeError
	switch {
	case errors.As(err, &unterminated):
		b.add(types.CheckUnterminatedEscape, unterminated.Range,
			fmt.Sprintf("%q is never closed, expected %q", unterminated.Marker, unterminated.Close))
		return b.finish(), nil
	case err != nil:
		return nil, errors.Wrapf(err, "classifying %s", path)
	}

	markers := p.StructuralMarkers()
	blocks, err := nesting.Blocks(path, lines, ranges, markers)
	var unmatched *nesting.UnmatchedIndentError
	switch {
	case errors.As(err, &unmatched):
		msg := (&nesting.UnmatchedIndentError{
			Open:  unmatched.Open,
			Close: unmatched.Close,
			Found: unmatched.Found,
		}).Error()
		marker := unmatched.Found
		if marker == "" {
			marker = unmatched.Open
		}
		b.add(types.CheckUnmatchedIndent, b.markerRange(unmatched.Position, marker), msg)
		return b.finish(), nil
	case err != nil:
		return nil, errors.Wrapf(err, "tracking nesting in %s", path)
	}
	rep.Blocks = blocks

	if !p.SignificantWhitespace {
		corr, err := nesting.Reindent(lines, ranges, markers, a.cfg.Indent)
		if err != nil {
			return nil, errors.Wrapf(err, "reindenting %s", path)
		}
		rep.Corrected = corr.Collect()
		if a.enabled(types.CheckIndentation) {
			if err := a.indentationDiagnostics(b, corr.Changed()); err != nil {
				return nil, err
			}
		}
	}

	if a.cfg.Strict && a.enabled(types.CheckExpectedIndent) {
		missing, err := nesting.CheckExpectedIndents(lines, ranges, p.ExpectIndentAfter)
		if err != nil {
			return nil, errors.Wrapf(err, "checking expected indents in %s", path)
		}
		for _, e := range missing {
			b.add(types.CheckExpectedIndent, b.lineRange(e.Line),
				fmt.Sprintf("expected an indented block after a line matching %q", e.Pattern))
		}
	}

	rep = b.finish()
	a.log.Debug("analyzed file",
		zap.String("path", path),
		zap.String("profile", p.ID),
		zap.Int("blocks", len(rep.Blocks)),
		zap.Int("diagnostics", len(rep.Diagnostics)),
	)
	return rep, nil
}

// indentationDiagnostics reports each run of consecutive changed lines
// (1-based) with a patch that fixes only that run.
func (a *Analyzer) indentationDiagnostics(b *builder, changed []int) error {
	rep := b.report
	for _, run := range consecutiveRuns(changed) {
		first, last := run[0], run[len(run)-1]
		partial := make([]string, len(rep.Original))
		copy(partial, rep.Original)
		for _, n := range run {
			partial[n-1] = rep.Corrected[n-1]
		}
		diff, err := patch.Unified(rep.Path, rep.Original, partial, a.cfg.PatchContext)
		if err != nil {
			return errors.Wrapf(err, "building patch for %s", rep.Path)
		}

		r := b.lineRange(first)
		if last != first {
			lr := b.lineRange(last)
			r.End = lr.End
			r.Offset.End = lr.Offset.End
		}
		msg := fmt.Sprintf("line %d is not indented to its nesting depth", first)
		if last != first {
			msg = fmt.Sprintf("lines %d-%d are not indented to their nesting depth", first, last)
		}
		b.add(types.CheckIndentation, r, msg).Patch = diff
	}
	return nil
}

// consecutiveRuns splits sorted line numbers into runs of consecutive ones.
func consecutiveRuns(lines []int) [][]int {
	var runs [][]int
	for i, n := range lines {
		if i == 0 || n != lines[i-1]+1 {
			runs = append(runs, nil)
		}
		runs[len(runs)-1] = append(runs[len(runs)-1], n)
	}
	return runs
}
