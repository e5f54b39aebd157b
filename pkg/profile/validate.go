package profile

import (
	"github.com/cockroachdb/errors"
	"github.com/dlclark/regexp2"
)

// ValidateProfile checks that a profile's marker table is unambiguous.
// Ambiguous tables are rejected rather than guessed at.
func ValidateProfile(p *LexicalProfile) error {
	if p == nil {
		return errors.New("profile is nil")
	}
	if p.ID == "" {
		return errors.New("profile ID is required")
	}

	openers := make(map[string]MarkerKind)
	structuralClosers := make(map[string]bool)
	for _, m := range p.Markers {
		if m.Open == "" {
			return errors.Newf("profile %s: %s marker has an empty opener", p.ID, m.Kind)
		}
		if m.Close == "" && m.Kind != Comment {
			return errors.Newf("profile %s: %s marker %q has an empty closer", p.ID, m.Kind, m.Open)
		}
		if m.Kind == Comment && m.Close != "" {
			return errors.Newf("profile %s: single-line comment %q cannot have a closer", p.ID, m.Open)
		}
		if m.Raw && m.Kind != String && m.Kind != MultilineString {
			return errors.Newf("profile %s: only string markers can be raw, %q is a %s marker", p.ID, m.Open, m.Kind)
		}
		if prev, ok := openers[m.Open]; ok {
			return errors.Newf("profile %s: opener %q is both a %s and a %s marker", p.ID, m.Open, prev, m.Kind)
		}
		openers[m.Open] = m.Kind
		if !m.Kind.Lexical() {
			structuralClosers[m.Close] = true
		}
	}

	for closer := range structuralClosers {
		if kind, ok := openers[closer]; ok {
			return errors.Newf("profile %s: %q is both a closer and a %s opener", p.ID, closer, kind)
		}
	}

	for _, pattern := range p.ExpectIndentAfter {
		if _, err := regexp2.Compile(pattern, regexp2.None); err != nil {
			return errors.Wrapf(err, "profile %s: invalid expect_indent_after pattern %q", p.ID, pattern)
		}
	}

	return nil
}
