// Package bearkit finds the strings and comments of source files and
// re-indents them by their nesting structure.
//
// # Basic Usage
//
// Create an analyzer with the builtin language profiles and check a file:
//
//	a, err := bearkit.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := a.AnalyzeFile("main.c", content)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, d := range report.Diagnostics {
//	    fmt.Printf("%s: %s\n", d.Range, d.Message)
//	}
//
// # Lower-level operations
//
// Classify, Reindent and Blocks expose the individual passes for one
// profile:
//
//	ranges, err := a.Classify("main.c", lines, "c")
//	corrected, err := a.Reindent(lines, "c")
//	blocks, err := a.Blocks("main.c", lines, "c")
//
// Lines keep their terminators; use SplitLines to produce them.
package bearkit

import (
	"github.com/bearkit/bearkit/pkg/analyzer"
	"github.com/bearkit/bearkit/pkg/classify"
	"github.com/bearkit/bearkit/pkg/nesting"
	"github.com/bearkit/bearkit/pkg/profile"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Re-export commonly used types for convenience.
type (
	// SourcePosition is a 1-based line and rune column.
	SourcePosition = types.SourcePosition

	// SourceRange is a closed range of positions in a file.
	SourceRange = types.SourceRange

	// ClassifiedRanges holds the string and comment ranges of a file.
	ClassifiedRanges = types.ClassifiedRanges

	// Diagnostic is one problem reported against a file.
	Diagnostic = types.Diagnostic

	// LexicalProfile describes the markers of one language.
	LexicalProfile = profile.LexicalProfile

	// Block is a balanced opener/closer pair.
	Block = nesting.Block

	// FileReport is the result of analyzing one file.
	FileReport = analyzer.FileReport

	UnterminatedEscapeError = classify.UnterminatedEscapeError
	UnmatchedIndentError    = nesting.UnmatchedIndentError
	ExpectedIndentError     = nesting.ExpectedIndentError
)

// SplitLines splits text into lines that keep their terminators.
func SplitLines(text string) []string {
	return types.SplitLines(text)
}

// Analyzer provides classification, re-indentation and diagnostics.
type Analyzer struct {
	inner  *analyzer.Analyzer
	config *analyzerConfig
}

// analyzerConfig holds analyzer configuration.
type analyzerConfig struct {
	profiles  []*LexicalProfile
	unit      string
	strict    bool
	logger    *zap.Logger
	cacheSize int
}

// Option configures an Analyzer.
type Option func(*analyzerConfig)

// WithProfiles adds profiles on top of the builtin ones. A profile with
// the ID of a builtin replaces it.
func WithProfiles(profiles ...*LexicalProfile) Option {
	return func(c *analyzerConfig) {
		c.profiles = append(c.profiles, profiles...)
	}
}

// WithIndentUnit sets the indentation inserted per nesting level.
// Default is a tab.
func WithIndentUnit(unit string) Option {
	return func(c *analyzerConfig) {
		c.unit = unit
	}
}

// WithStrict enables the expected-indent check in AnalyzeFile.
func WithStrict() Option {
	return func(c *analyzerConfig) {
		c.strict = true
	}
}

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *analyzerConfig) {
		c.logger = l
	}
}

// WithCacheSize bounds the classification cache. 0 disables caching.
func WithCacheSize(n int) Option {
	return func(c *analyzerConfig) {
		c.cacheSize = n
	}
}

// New creates an Analyzer with the given options.
//
// By default, the analyzer:
//   - Uses all builtin language profiles
//   - Indents with one tab per level
//   - Does NOT run the expected-indent check (enable with WithStrict)
func New(opts ...Option) (*Analyzer, error) {
	config := &analyzerConfig{cacheSize: analyzer.DefaultCacheSize}
	for _, opt := range opts {
		opt(config)
	}

	builtin, err := profile.NewLoader().LoadBuiltinProfiles()
	if err != nil {
		return nil, errors.Wrap(err, "loading builtin profiles")
	}

	inner, err := analyzer.New(analyzer.Config{
		Registry:  profile.NewRegistry(append(builtin, config.profiles...)),
		Indent:    nesting.Options{Unit: config.unit},
		Strict:    config.strict,
		CacheSize: config.cacheSize,
		Logger:    config.logger,
	})
	if err != nil {
		return nil, err
	}
	return &Analyzer{inner: inner, config: config}, nil
}

// Profiles returns every available profile, sorted by ID.
func (a *Analyzer) Profiles() []*LexicalProfile {
	return a.inner.Registry().All()
}

// Profile looks a profile up by ID or alias.
func (a *Analyzer) Profile(name string) (*LexicalProfile, error) {
	return a.inner.Registry().Get(name)
}

// Classify returns the string and comment ranges of lines. An unclosed
// string or comment is an *UnterminatedEscapeError.
func (a *Analyzer) Classify(file string, lines []string, profileName string) (ClassifiedRanges, error) {
	p, err := a.Profile(profileName)
	if err != nil {
		return ClassifiedRanges{}, err
	}
	return a.inner.Classify(file, lines, p)
}

// Reindent returns lines with their indentation corrected. Nothing is
// returned when a string, comment or marker is unbalanced.
func (a *Analyzer) Reindent(lines []string, profileName string) ([]string, error) {
	p, err := a.Profile(profileName)
	if err != nil {
		return nil, err
	}
	ranges, err := a.inner.Classify("", lines, p)
	if err != nil {
		return nil, err
	}
	c, err := nesting.Reindent(lines, ranges, p.StructuralMarkers(), nesting.Options{Unit: a.config.unit})
	if err != nil {
		return nil, err
	}
	return c.Collect(), nil
}

// Blocks returns the balanced indent and bracket pairs of lines,
// outermost first.
func (a *Analyzer) Blocks(file string, lines []string, profileName string) ([]Block, error) {
	p, err := a.Profile(profileName)
	if err != nil {
		return nil, err
	}
	ranges, err := a.inner.Classify(file, lines, p)
	if err != nil {
		return nil, err
	}
	return nesting.Blocks(file, lines, ranges, p.StructuralMarkers())
}

// CheckExpectedIndents reports lines that should open an indented block,
// per the profile's expect_indent_after patterns, but do not.
func (a *Analyzer) CheckExpectedIndents(lines []string, profileName string) ([]*ExpectedIndentError, error) {
	p, err := a.Profile(profileName)
	if err != nil {
		return nil, err
	}
	ranges, err := a.inner.Classify("", lines, p)
	if err != nil {
		return nil, err
	}
	return nesting.CheckExpectedIndents(lines, ranges, p.ExpectIndentAfter)
}

// AnalyzeFile detects the language of path and runs every check.
func (a *Analyzer) AnalyzeFile(path string, content []byte) (*FileReport, error) {
	return a.inner.AnalyzeFile(path, content)
}

// LoadProfileFromFile loads one profile from a YAML file. Use it with
// WithProfiles.
func LoadProfileFromFile(path string) (*LexicalProfile, error) {
	return profile.NewLoader().LoadProfileFile(path)
}

// LoadBuiltinProfiles returns all builtin language profiles.
func LoadBuiltinProfiles() ([]*LexicalProfile, error) {
	return profile.NewLoader().LoadBuiltinProfiles()
}
