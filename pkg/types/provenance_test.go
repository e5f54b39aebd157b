package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProvenance(t *testing.T) {
	tests := []struct {
		name     string
		prov     Provenance
		wantKind string
		wantPath string
	}{
		{name: "file", prov: FileProvenance{FilePath: "src/main.c"}, wantKind: "file", wantPath: "src/main.c"},
		{name: "stdin unnamed", prov: StdinProvenance{}, wantKind: "stdin", wantPath: "<stdin>"},
		{name: "stdin named", prov: StdinProvenance{Name: "x.py"}, wantKind: "stdin", wantPath: "x.py"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, tt.prov.Kind())
			assert.Equal(t, tt.wantPath, tt.prov.Path())
		})
	}
}
