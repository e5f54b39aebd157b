package serve

import (
	"encoding/json"

	"github.com/bearkit/bearkit/pkg/analyzer"
	"github.com/bearkit/bearkit/pkg/types"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "analyze" | "analyze_batch" | "classify" | "close"
	Payload json.RawMessage `json:"payload"`
}

// FilePayload names one file and its content. Profile, when set, is used
// instead of detecting the language from Path.
type FilePayload struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Profile string `json:"profile,omitempty"`
}

// AnalyzeBatchPayload is the payload for "analyze_batch" requests
type AnalyzeBatchPayload struct {
	Items []FilePayload `json:"items"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // request type, "ready" or "decode"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version  string   `json:"version"`
	Profiles []string `json:"profiles"`
}

// AnalyzeResult is the data of an "analyze" response. Corrected is the
// reindented text, present only when it differs from the content sent.
type AnalyzeResult struct {
	*analyzer.FileReport
	Corrected string `json:"corrected,omitempty"`
}

// BatchItem is one entry of an "analyze_batch" response. A file that
// could not be analyzed carries Error instead of a report.
type BatchItem struct {
	*AnalyzeResult
	Path  string `json:"path"`
	Error string `json:"error,omitempty"`
}

// ClassifyResult is the data of a "classify" response.
type ClassifyResult struct {
	Profile  string              `json:"profile"`
	Strings  []types.SourceRange `json:"strings"`
	Comments []types.SourceRange `json:"comments"`
}
