package profile

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// DefaultEscape is used when a profile does not set one.
const DefaultEscape = `\`

// Loader handles loading profiles from YAML files.
type Loader struct {
	fs fs.FS // embedded filesystem for built-in profiles
}

// NewLoader creates a loader with built-in profiles from embedded filesystem.
func NewLoader() *Loader {
	return &Loader{fs: builtinProfilesFS}
}

// NewLoaderWithFS creates a loader with a custom filesystem.
// The filesystem must hold its profiles under a "profiles" directory.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{fs: fsys}
}

// LoadProfile loads a single profile from YAML bytes.
// Returns error if YAML is invalid, multiple profiles are present, or the
// profile fails validation.
func (l *Loader) LoadProfile(data []byte) (*LexicalProfile, error) {
	var yamlFile yamlProfilesFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}

	if len(yamlFile.Profiles) == 0 {
		return nil, errors.New("no profiles found in YAML")
	}
	if len(yamlFile.Profiles) > 1 {
		return nil, errors.Newf("expected single profile, found %d", len(yamlFile.Profiles))
	}

	p := convertYAMLProfile(yamlFile.Profiles[0])
	if err := ValidateProfile(p); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadProfileFile loads a profile from a YAML file path.
func (l *Loader) LoadProfileFile(path string) (*LexicalProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %s", path)
	}
	p, err := l.LoadProfile(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return p, nil
}

// LoadProfileDir loads every profile from the .yml and .yaml files under dir.
func (l *Loader) LoadProfileDir(dir string) ([]*LexicalProfile, error) {
	profiles, err := loadAll(os.DirFS(dir), ".")
	if err != nil {
		return nil, errors.Wrapf(err, "loading profiles from %s", dir)
	}
	return profiles, nil
}

// LoadBuiltinProfiles loads all built-in profiles from embedded filesystem.
func (l *Loader) LoadBuiltinProfiles() ([]*LexicalProfile, error) {
	return loadAll(l.fs, "profiles")
}

func loadAll(fsys fs.FS, root string) ([]*LexicalProfile, error) {
	var profiles []*LexicalProfile

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if d.IsDir() || (ext != ".yml" && ext != ".yaml") {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", path)
		}

		var yamlFile yamlProfilesFile
		if err := yaml.Unmarshal(data, &yamlFile); err != nil {
			return errors.Wrapf(err, "failed to parse %s", path)
		}

		for _, yp := range yamlFile.Profiles {
			p := convertYAMLProfile(yp)
			if err := ValidateProfile(p); err != nil {
				return errors.Wrapf(err, "%s", path)
			}
			profiles = append(profiles, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

// convertYAMLProfile converts yamlProfile to a LexicalProfile with its
// markers in scan order.
func convertYAMLProfile(yp yamlProfile) *LexicalProfile {
	p := &LexicalProfile{
		ID:                    yp.ID,
		Name:                  yp.Name,
		Aliases:               yp.Aliases,
		Filenames:             yp.Filenames,
		Escape:                DefaultEscape,
		CommentTokenStart:     yp.CommentTokenStart,
		ExpectIndentAfter:     yp.ExpectIndentAfter,
		SignificantWhitespace: yp.SignificantWhitespace,
	}
	if p.Name == "" {
		p.Name = p.ID
	}
	if yp.Escape != nil {
		p.Escape = *yp.Escape
	}
	for _, ext := range yp.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		p.Extensions = append(p.Extensions, strings.ToLower(ext))
	}

	for _, open := range yp.CommentDelimiters {
		p.Markers = append(p.Markers, Marker{Kind: Comment, Open: open})
	}
	add := func(kind MarkerKind, pairs map[string]string) {
		for open, close := range pairs {
			p.Markers = append(p.Markers, Marker{Kind: kind, Open: open, Close: close})
		}
	}
	add(MultilineComment, yp.MultilineCommentDelimiters)
	add(String, yp.StringDelimiters)
	add(MultilineString, yp.MultilineStringDelimiters)
	// Raw strings may span lines and never honor the escape prefix.
	for open, close := range yp.RawStringDelimiters {
		p.Markers = append(p.Markers, Marker{Kind: MultilineString, Open: open, Close: close, Raw: true})
	}
	add(Indent, yp.IndentMarkers)
	add(Bracket, yp.BracketMarkers)

	SortMarkers(p.Markers)
	return p
}
