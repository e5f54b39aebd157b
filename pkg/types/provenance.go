package types

// Provenance tracks where analyzed content came from.
type Provenance interface {
	Kind() string
	// Path returns displayable path (if applicable)
	Path() string
}

// FileProvenance for filesystem files.
type FileProvenance struct {
	FilePath string
}

// Kind returns "file".
func (f FileProvenance) Kind() string {
	return "file"
}

// Path returns the file path.
func (f FileProvenance) Path() string {
	return f.FilePath
}

// StdinProvenance for content piped on standard input. Name is the
// filename used for profile detection, if the caller supplied one.
type StdinProvenance struct {
	Name string
}

// Kind returns "stdin".
func (s StdinProvenance) Kind() string {
	return "stdin"
}

// Path returns the display name, "<stdin>" when none was given.
func (s StdinProvenance) Path() string {
	if s.Name == "" {
		return "<stdin>"
	}
	return s.Name
}
