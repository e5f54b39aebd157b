package profile

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/cockroachdb/errors"
)

// ErrUnknownProfile is returned when no profile matches a name or file.
var ErrUnknownProfile = errors.New("unknown language profile")

// Registry indexes profiles by ID, alias, filename and extension.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	profiles   []*LexicalProfile
	byName     map[string]*LexicalProfile
	byFilename map[string]*LexicalProfile
	byExt      map[string]*LexicalProfile
}

// NewRegistry builds a registry. Later profiles override earlier ones that
// claim the same ID, alias, filename or extension, so user profiles can be
// appended after the built-ins.
func NewRegistry(profiles []*LexicalProfile) *Registry {
	r := &Registry{
		byName:     make(map[string]*LexicalProfile),
		byFilename: make(map[string]*LexicalProfile),
		byExt:      make(map[string]*LexicalProfile),
	}
	for _, p := range profiles {
		if prev, ok := r.byName[strings.ToLower(p.ID)]; ok && prev.ID == p.ID {
			r.profiles = slices.DeleteFunc(r.profiles, func(q *LexicalProfile) bool { return q == prev })
		}
		r.profiles = append(r.profiles, p)
		r.byName[strings.ToLower(p.ID)] = p
		for _, a := range p.Aliases {
			r.byName[strings.ToLower(a)] = p
		}
		for _, f := range p.Filenames {
			r.byFilename[f] = p
		}
		for _, e := range p.Extensions {
			r.byExt[strings.ToLower(e)] = p
		}
	}
	slices.SortFunc(r.profiles, func(a, b *LexicalProfile) int {
		return strings.Compare(a.ID, b.ID)
	})
	return r
}

// All returns the registered profiles sorted by ID.
func (r *Registry) All() []*LexicalProfile {
	return slices.Clone(r.profiles)
}

// Get looks a profile up by ID or alias, case-insensitively.
func (r *Registry) Get(name string) (*LexicalProfile, error) {
	if p, ok := r.byName[strings.ToLower(name)]; ok {
		return p, nil
	}
	return nil, errors.WithHint(
		errors.Wrapf(ErrUnknownProfile, "%q", name),
		"run `bearkit profiles list` to see the available profiles",
	)
}

// Detect picks the profile for a file. It tries the exact base name, then
// the extension, then falls back to chroma's lexer detection and maps the
// lexer back onto a profile by name or alias.
func (r *Registry) Detect(path string, content []byte) (*LexicalProfile, error) {
	base := filepath.Base(path)
	if p, ok := r.byFilename[base]; ok {
		return p, nil
	}
	if ext := strings.ToLower(filepath.Ext(base)); ext != "" {
		if p, ok := r.byExt[ext]; ok {
			return p, nil
		}
	}

	var lexer chroma.Lexer
	if path != "" {
		lexer = lexers.Match(base)
	}
	if lexer == nil && len(content) > 0 {
		lexer = lexers.Analyse(string(content))
	}
	if lexer != nil {
		cfg := lexer.Config()
		for _, name := range append([]string{cfg.Name}, cfg.Aliases...) {
			if p, ok := r.byName[strings.ToLower(name)]; ok {
				return p, nil
			}
		}
	}

	return nil, errors.Wrapf(ErrUnknownProfile, "no profile for %s", path)
}
