package profile

// yamlProfile is the on-disk form of a LexicalProfile.
type yamlProfile struct {
	ID                         string            `yaml:"id"`
	Name                       string            `yaml:"name"`
	Aliases                    []string          `yaml:"aliases,omitempty"`
	Extensions                 []string          `yaml:"extensions,omitempty"`
	Filenames                  []string          `yaml:"filenames,omitempty"`
	CommentDelimiters          []string          `yaml:"comment_delimiters,omitempty"`
	MultilineCommentDelimiters map[string]string `yaml:"multiline_comment_delimiters,omitempty"`
	StringDelimiters           map[string]string `yaml:"string_delimiters,omitempty"`
	MultilineStringDelimiters  map[string]string `yaml:"multiline_string_delimiters,omitempty"`
	RawStringDelimiters        map[string]string `yaml:"raw_string_delimiters,omitempty"`
	IndentMarkers              map[string]string `yaml:"indent_markers,omitempty"`
	BracketMarkers             map[string]string `yaml:"bracket_markers,omitempty"`
	Escape                     *string           `yaml:"escape,omitempty"`
	CommentTokenStart          bool              `yaml:"comment_token_start,omitempty"`
	ExpectIndentAfter          []string          `yaml:"expect_indent_after,omitempty"`
	SignificantWhitespace      bool              `yaml:"significant_whitespace,omitempty"`
}

// yamlProfilesFile is the top-level structure of a profile file.
type yamlProfilesFile struct {
	Profiles []yamlProfile `yaml:"profiles"`
}
