// Package validator carries the shared validation vocabulary: severities,
// issues, per-document and per-tree reports, and their renderers. Both
// `skillctl validate` and the doctor's registry check speak it.
package validator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity ranks a validation issue.
type Severity int

const (
	// SeverityError blocks: the document is invalid.
	SeverityError Severity = iota
	// SeverityWarning flags something worth fixing that does not
	// invalidate the document.
	SeverityWarning
	// SeverityInfo is a note.
	SeverityInfo
)

var severityNames = map[Severity]string{
	SeverityError:   "error",
	SeverityWarning: "warning",
	SeverityInfo:    "info",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON emits the severity name so machine output uses the same
// vocabulary as the text report.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the names emitted by MarshalJSON.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for sev, n := range severityNames {
		if n == name {
			*s = sev
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", name)
}

// Issue is one validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	// Field names the frontmatter field at fault, when one does.
	Field string `json:"field,omitempty"`
	// Message describes the problem.
	Message string `json:"message"`
	// Value is the offending value, when echoing it helps.
	Value any `json:"value,omitempty"`
	// Context carries extra file or domain detail.
	Context map[string]string `json:"context,omitempty"`
}

// Error renders the issue as "severity: field "x": message (got v)".
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if i.Field != "" {
		fmt.Fprintf(&sb, "field %q: ", i.Field)
	}
	sb.WriteString(i.Message)
	if i.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", i.Value)
	}
	return sb.String()
}

// Result collects the issues found in one validation pass.
type Result struct {
	Issues []Issue `json:"issues"`
}

func (r *Result) add(sev Severity, field, message string, value any) {
	r.Issues = append(r.Issues, Issue{Severity: sev, Field: field, Message: message, Value: value})
}

// AddError records a blocking issue.
func (r *Result) AddError(field, message string, value any) {
	r.add(SeverityError, field, message, value)
}

// AddWarning records a non-blocking issue.
func (r *Result) AddWarning(field, message string, value any) {
	r.add(SeverityWarning, field, message, value)
}

// AddInfo records a note.
func (r *Result) AddInfo(field, message string, value any) {
	r.add(SeverityInfo, field, message, value)
}

func (r *Result) filter(sev Severity) []Issue {
	if r == nil {
		return nil
	}
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}

// HasErrors reports whether any blocking issue was recorded.
func (r *Result) HasErrors() bool {
	return len(r.filter(SeverityError)) > 0
}

// HasWarnings reports whether any warning was recorded.
func (r *Result) HasWarnings() bool {
	return len(r.filter(SeverityWarning)) > 0
}

// Errors returns the blocking issues.
func (r *Result) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning issues.
func (r *Result) Warnings() []Issue {
	return r.filter(SeverityWarning)
}
