package analyzer

import (
	"github.com/bearkit/bearkit/pkg/nesting"
	"github.com/bearkit/bearkit/pkg/types"
)

// FileReport is the result of analyzing one file.
type FileReport struct {
	Path    string       `json:"path"`
	BlobID  types.BlobID `json:"blob_id"`
	Profile string       `json:"profile,omitempty"` // empty when no profile matched

	Classified types.ClassifiedRanges `json:"classified"`
	Blocks     []nesting.Block        `json:"blocks,omitempty"`

	// Original and Corrected hold the file's lines, terminators included.
	// Corrected is nil when no correction could be computed.
	Original  []string `json:"-"`
	Corrected []string `json:"-"`

	Diagnostics []*types.Diagnostic `json:"diagnostics"`

	// Cached is set when the blob was found in the store and not analyzed
	// again; only Diagnostics are filled in.
	Cached bool `json:"cached,omitempty"`
}

// Changed reports whether the corrected text differs from the original.
func (r *FileReport) Changed() bool {
	if r.Corrected == nil {
		return false
	}
	for i := range r.Original {
		if r.Original[i] != r.Corrected[i] {
			return true
		}
	}
	return false
}

// HasErrors reports whether any diagnostic is major.
func (r *FileReport) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == types.SeverityMajor {
			return true
		}
	}
	return false
}

// Sink receives reports from AnalyzeAll. Calls are serialized.
type Sink func(*FileReport) error
