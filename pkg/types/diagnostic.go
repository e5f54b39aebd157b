package types

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Severity ranks how serious a diagnostic is.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityNormal
	SeverityMajor
)

var severityNames = [...]string{"info", "normal", "major"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity parses the lowercase severity name.
func ParseSeverity(s string) (Severity, error) {
	for i, name := range severityNames {
		if strings.EqualFold(s, name) {
			return Severity(i), nil
		}
	}
	return 0, errors.Newf("unknown severity %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Check names the analysis that produced a diagnostic.
type Check string

const (
	CheckIndentation        Check = "indentation"
	CheckUnterminatedEscape Check = "unterminated-escape"
	CheckUnmatchedIndent    Check = "unmatched-indent"
	CheckExpectedIndent     Check = "expected-indent"
	CheckUnknownProfile     Check = "unknown-profile"
)

// AllChecks lists every check in report order.
var AllChecks = []Check{
	CheckIndentation,
	CheckUnterminatedEscape,
	CheckUnmatchedIndent,
	CheckExpectedIndent,
	CheckUnknownProfile,
}

// Description is a one-line summary of what the check reports.
func (c Check) Description() string {
	switch c {
	case CheckIndentation:
		return "Line indentation does not match its nesting depth"
	case CheckUnterminatedEscape:
		return "String or comment is never closed"
	case CheckUnmatchedIndent:
		return "Opening and closing markers do not pair up"
	case CheckExpectedIndent:
		return "Line should open an indented block but does not"
	case CheckUnknownProfile:
		return "No language profile matches the file"
	}
	return string(c)
}

// DefaultSeverity is the severity a check reports at.
func (c Check) DefaultSeverity() Severity {
	switch c {
	case CheckUnterminatedEscape, CheckUnmatchedIndent:
		return SeverityMajor
	case CheckUnknownProfile:
		return SeverityInfo
	}
	return SeverityNormal
}

// Diagnostic is one finding reported against a file.
type Diagnostic struct {
	ID       string      `json:"id"` // SHA-1(check + '\0' + blob + '\0' + start + '\0' + end)
	Check    Check       `json:"check"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
	File     string      `json:"file"`
	BlobID   BlobID      `json:"blob_id"`
	Range    SourceRange `json:"range"`
	Snippet  Snippet     `json:"snippet"`
	Patch    string      `json:"patch,omitempty"` // unified diff fixing the problem
}

// NewDiagnostic builds a diagnostic at the check's default severity and
// fills in its ID.
func NewDiagnostic(check Check, blob BlobID, r SourceRange, msg string) *Diagnostic {
	d := &Diagnostic{
		Check:    check,
		Severity: check.DefaultSeverity(),
		Message:  msg,
		File:     r.File,
		BlobID:   blob,
		Range:    r,
	}
	d.ID = ComputeDiagnosticID(check, blob, r)
	return d
}

// ComputeDiagnosticID computes a content-based diagnostic ID, stable across
// runs and renames of the file.
func ComputeDiagnosticID(check Check, blob BlobID, r SourceRange) string {
	h := sha1.New()
	h.Write([]byte(check))
	h.Write([]byte{0})
	h.Write([]byte(blob.Hex()))
	h.Write([]byte{0})
	fmt.Fprintf(h, "%d:%d", r.Start.Line, r.Start.Column)
	h.Write([]byte{0})
	fmt.Fprintf(h, "%d:%d", r.End.Line, r.End.Column)
	return hex.EncodeToString(h.Sum(nil))
}
