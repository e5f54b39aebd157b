package sarif

import (
	"encoding/json"
	"testing"

	"github.com/bearkit/bearkit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diagnostic(check types.Check, file string, start, end types.SourcePosition) *types.Diagnostic {
	r := types.SourceRange{File: file, Start: start, End: end}
	return types.NewDiagnostic(check, types.ComputeBlobID([]byte(file)), r, "problem in "+file)
}

func TestNewReport(t *testing.T) {
	report := NewReport()

	assert.Equal(t, SchemaURI, report.Schema)
	assert.Equal(t, Version, report.Version)
	assert.Len(t, report.Runs, 1)
	assert.Equal(t, ToolName, report.Runs[0].Tool.Driver.Name)
	assert.Equal(t, ToolVersion, report.Runs[0].Tool.Driver.Version)
	assert.NotNil(t, report.Runs[0].Results)
}

func TestAddRule(t *testing.T) {
	report := NewReport()

	report.AddRule(types.CheckUnmatchedIndent)
	report.AddRule(types.CheckUnmatchedIndent)

	rules := report.Runs[0].Tool.Driver.Rules
	require.Len(t, rules, 1)
	assert.Equal(t, "unmatched-indent", rules[0].ID)
	assert.Equal(t, "UnmatchedIndent", rules[0].Name)
	assert.Equal(t, types.CheckUnmatchedIndent.Description(), rules[0].ShortDescription.Text)
	assert.Equal(t, "error", rules[0].DefaultConfiguration.Level)
}

func TestAddResult(t *testing.T) {
	report := NewReport()
	report.AddRule(types.CheckIndentation)

	d := diagnostic(types.CheckUnterminatedEscape, "/path/to/main.c",
		types.SourcePosition{Line: 10, Column: 5},
		types.SourcePosition{Line: 10, Column: 6})
	d.Snippet = types.Snippet{Matching: []string{`    "abc`}, Line: 10}
	report.AddResult(d)

	require.Len(t, report.Runs[0].Results, 1)
	result := report.Runs[0].Results[0]
	assert.Equal(t, "unterminated-escape", result.RuleID)
	assert.Equal(t, 1, result.RuleIndex, "rule registered on demand")
	assert.Equal(t, "error", result.Level)
	assert.Equal(t, d.Message, result.Message.Text)
	assert.Equal(t, map[string]string{FingerprintKey: d.ID}, result.PartialFingerprints)
	assert.Nil(t, result.Properties)

	location := result.Locations[0].PhysicalLocation
	assert.Equal(t, "file:///path/to/main.c", location.ArtifactLocation.URI)
	assert.Equal(t, Region{
		StartLine:   10,
		StartColumn: 5,
		EndLine:     10,
		EndColumn:   7,
		Snippet:     &Snippet{Text: `    "abc`},
	}, location.Region)
}

func TestLevel(t *testing.T) {
	tests := []struct {
		severity types.Severity
		want     string
	}{
		{types.SeverityMajor, "error"},
		{types.SeverityNormal, "warning"},
		{types.SeverityInfo, "note"},
	}
	for _, tt := range tests {
		t.Run(tt.severity.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Level(tt.severity))
		})
	}
}

func TestToJSON(t *testing.T) {
	report := NewReport()

	d := diagnostic(types.CheckIndentation, "src/a.go",
		types.SourcePosition{Line: 3, Column: 1},
		types.SourcePosition{Line: 4, Column: 2})
	d.Patch = "--- a/src/a.go\n+++ b/src/a.go\n"
	report.AddResult(d)

	jsonBytes, err := report.ToJSON()
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(jsonBytes, &parsed))
	assert.Equal(t, SchemaURI, parsed["$schema"])
	assert.Equal(t, Version, parsed["version"])

	runs := parsed["runs"].([]any)
	results := runs[0].(map[string]any)["results"].([]any)
	result := results[0].(map[string]any)
	assert.Equal(t, "warning", result["level"])
	assert.Equal(t, d.Patch, result["properties"].(map[string]any)["patch"])

	region := result["locations"].([]any)[0].(map[string]any)["physicalLocation"].(map[string]any)["region"].(map[string]any)
	assert.NotContains(t, region, "snippet")
}

func TestRelativePathConversion(t *testing.T) {
	report := NewReport()
	pos := types.SourcePosition{Line: 1, Column: 1}

	report.AddResult(diagnostic(types.CheckIndentation, "/absolute/path/file.c", pos, pos))
	report.AddResult(diagnostic(types.CheckIndentation, "relative/path/file.c", pos, pos))

	results := report.Runs[0].Results
	assert.Equal(t, "file:///absolute/path/file.c", results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, "relative/path/file.c", results[1].Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Len(t, report.Runs[0].Tool.Driver.Rules, 1)
}
