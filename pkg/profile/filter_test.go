package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePatterns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: []string{}},
		{name: "single", input: "c.*", expected: []string{"c.*"}},
		{name: "trimmed", input: " c , go ,, python ", expected: []string{"c", "go", "python"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePatterns(tt.input))
		})
	}
}

func TestFilter(t *testing.T) {
	profiles := []*LexicalProfile{{ID: "c"}, {ID: "cpp"}, {ID: "csharp"}, {ID: "go"}}

	tests := []struct {
		name     string
		config   FilterConfig
		expected []string
	}{
		{name: "no patterns", config: FilterConfig{}, expected: []string{"c", "cpp", "csharp", "go"}},
		{name: "include", config: FilterConfig{Include: []string{"^c"}}, expected: []string{"c", "cpp", "csharp"}},
		{name: "exclude", config: FilterConfig{Exclude: []string{"sharp$"}}, expected: []string{"c", "cpp", "go"}},
		{name: "both", config: FilterConfig{Include: []string{"^c"}, Exclude: []string{"^c$"}}, expected: []string{"cpp", "csharp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(profiles, tt.config)
			require.NoError(t, err)
			ids := make([]string, len(got))
			for i, p := range got {
				ids[i] = p.ID
			}
			assert.Equal(t, tt.expected, ids)
		})
	}

	_, err := Filter(profiles, FilterConfig{Include: []string{"("}})
	assert.Error(t, err)
}
