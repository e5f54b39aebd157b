package profile

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinRegistry(t *testing.T) *Registry {
	t.Helper()
	profiles, err := NewLoader().LoadBuiltinProfiles()
	require.NoError(t, err)
	return NewRegistry(profiles)
}

func TestRegistry_Get(t *testing.T) {
	r := builtinRegistry(t)

	p, err := r.Get("golang")
	require.NoError(t, err)
	assert.Equal(t, "go", p.ID)

	p, err = r.Get("C++")
	require.NoError(t, err)
	assert.Equal(t, "cpp", p.ID)

	_, err = r.Get("cobol")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownProfile))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestRegistry_Detect(t *testing.T) {
	r := builtinRegistry(t)

	tests := []struct {
		name    string
		path    string
		content string
		want    string
	}{
		{name: "extension", path: "src/main.c", want: "c"},
		{name: "uppercase extension", path: "Main.JAVA", want: "java"},
		{name: "filename", path: "/home/u/.bashrc", want: "shell"},
		{name: "shebang via chroma", path: "deploy", content: "#!/bin/bash\necho hi\n", want: "shell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Detect(tt.path, []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.ID)
		})
	}

	_, err := r.Detect("notes.unknownext", nil)
	assert.True(t, errors.Is(err, ErrUnknownProfile))
}

func TestRegistry_OverrideByID(t *testing.T) {
	first := &LexicalProfile{ID: "c", Extensions: []string{".c"}}
	second := &LexicalProfile{ID: "c", Extensions: []string{".c"}, Escape: "^"}
	r := NewRegistry([]*LexicalProfile{first, second, {ID: "a"}})

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Same(t, second, all[1])

	p, err := r.Detect("x.c", nil)
	require.NoError(t, err)
	assert.Same(t, second, p)
}
