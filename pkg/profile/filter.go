package profile

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// FilterConfig specifies include and exclude patterns for profile filtering.
type FilterConfig struct {
	Include []string // Regex patterns - only matching profiles included
	Exclude []string // Regex patterns - matching profiles excluded
}

// ParsePatterns splits a comma-separated string into individual patterns.
func ParsePatterns(patterns string) []string {
	result := []string{}
	for _, p := range strings.Split(patterns, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Filter applies include and exclude patterns to profile IDs.
// Include is applied first, then exclude; empty include keeps everything.
func Filter(profiles []*LexicalProfile, config FilterConfig) ([]*LexicalProfile, error) {
	include, err := compileAll(config.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileAll(config.Exclude)
	if err != nil {
		return nil, err
	}

	result := make([]*LexicalProfile, 0, len(profiles))
	for _, p := range profiles {
		if len(include) > 0 && !matchesAny(p.ID, include) {
			continue
		}
		if matchesAny(p.ID, exclude) {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	regexes := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid regex pattern %q", pattern)
		}
		regexes = append(regexes, re)
	}
	return regexes, nil
}

func matchesAny(id string, regexes []*regexp.Regexp) bool {
	for _, re := range regexes {
		if re.MatchString(id) {
			return true
		}
	}
	return false
}
