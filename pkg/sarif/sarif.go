// Package sarif renders diagnostics as a SARIF 2.1.0 log.
package sarif

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/bearkit/bearkit/pkg/types"
)

// SARIF 2.1.0 constants
const (
	SchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version   = "2.1.0"
	ToolName  = "bearkit"

	// FingerprintKey names the partial fingerprint carrying Diagnostic.ID.
	FingerprintKey = "bearkitDiagnosticId/v1"
)

// ToolVersion is reported as the driver version; the CLI overrides it.
var ToolVersion = "dev"

// Report is the top-level SARIF report structure
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule describes one check.
type Rule struct {
	ID                   string               `json:"id"`
	Name                 string               `json:"name"`
	ShortDescription     ShortDescription     `json:"shortDescription"`
	DefaultConfiguration DefaultConfiguration `json:"defaultConfiguration"`
}

// ShortDescription contains rule description text
type ShortDescription struct {
	Text string `json:"text"`
}

// DefaultConfiguration holds the level a rule reports at.
type DefaultConfiguration struct {
	Level string `json:"level"`
}

// Result represents a single diagnostic
type Result struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             Message           `json:"message"`
	Locations           []Location        `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
	Properties          *Properties       `json:"properties,omitempty"`
}

// Properties is the result property bag.
type Properties struct {
	Patch string `json:"patch,omitempty"`
}

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region specifies the line/column range. EndColumn is exclusive.
type Region struct {
	StartLine   int      `json:"startLine"`
	StartColumn int      `json:"startColumn"`
	EndLine     int      `json:"endLine"`
	EndColumn   int      `json:"endColumn"`
	Snippet     *Snippet `json:"snippet,omitempty"`
}

// Snippet contains the lines the diagnostic touches
type Snippet struct {
	Text string `json:"text"`
}

// NewReport creates a new SARIF report with initialized structure
func NewReport() *Report {
	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: ToolVersion,
						Rules:   []Rule{},
					},
				},
				Results: []Result{},
			},
		},
	}
}

// AddRule adds a check to the report. Adding a check twice is a no-op.
func (r *Report) AddRule(check types.Check) {
	if r.ruleIndex(check) >= 0 {
		return
	}
	r.Runs[0].Tool.Driver.Rules = append(r.Runs[0].Tool.Driver.Rules, Rule{
		ID:   string(check),
		Name: ruleName(check),
		ShortDescription: ShortDescription{
			Text: check.Description(),
		},
		DefaultConfiguration: DefaultConfiguration{
			Level: Level(check.DefaultSeverity()),
		},
	})
}

// AddResult adds a diagnostic, registering its check as a rule if needed.
func (r *Report) AddResult(d *types.Diagnostic) {
	r.AddRule(d.Check)

	region := Region{
		StartLine:   d.Range.Start.Line,
		StartColumn: max(d.Range.Start.Column, 1),
		EndLine:     d.Range.End.Line,
		EndColumn:   max(d.Range.End.Column, 0) + 1,
	}
	if len(d.Snippet.Matching) > 0 {
		region.Snippet = &Snippet{Text: strings.Join(d.Snippet.Matching, "\n")}
	}

	result := Result{
		RuleID:    string(d.Check),
		RuleIndex: r.ruleIndex(d.Check),
		Level:     Level(d.Severity),
		Message: Message{
			Text: d.Message,
		},
		Locations: []Location{
			{
				PhysicalLocation: PhysicalLocation{
					ArtifactLocation: ArtifactLocation{
						URI: formatFileURI(d.File),
					},
					Region: region,
				},
			},
		},
	}
	if d.ID != "" {
		result.PartialFingerprints = map[string]string{FingerprintKey: d.ID}
	}
	if d.Patch != "" {
		result.Properties = &Properties{Patch: d.Patch}
	}

	r.Runs[0].Results = append(r.Runs[0].Results, result)
}

// ToJSON serializes the report to JSON bytes
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Level maps a severity onto a SARIF result level.
func Level(s types.Severity) string {
	switch s {
	case types.SeverityMajor:
		return "error"
	case types.SeverityInfo:
		return "note"
	}
	return "warning"
}

func (r *Report) ruleIndex(check types.Check) int {
	for i, rule := range r.Runs[0].Tool.Driver.Rules {
		if rule.ID == string(check) {
			return i
		}
	}
	return -1
}

// ruleName turns "unmatched-indent" into "UnmatchedIndent".
func ruleName(check types.Check) string {
	var b strings.Builder
	for part := range strings.SplitSeq(string(check), "-") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		// Normalize path separators for URI format
		path = filepath.ToSlash(path)
		// Ensure path starts with /
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	// Relative paths stay as-is
	return filepath.ToSlash(path)
}
