// Package doctor provides registry and environment diagnostics.
package doctor

import (
	"encoding/json"
	"fmt"
)

// Severity ranks a check outcome.
type Severity int

const (
	// SeverityPass means the check found nothing wrong.
	SeverityPass Severity = iota

	// SeverityInfo is a note, not a problem.
	SeverityInfo

	// SeverityWarning flags an issue that does not block operation.
	SeverityWarning

	// SeverityError flags an issue that prevents proper operation.
	SeverityError
)

var severityNames = map[Severity]string{
	SeverityPass:    "pass",
	SeverityInfo:    "info",
	SeverityWarning: "warning",
	SeverityError:   "error",
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

// UnmarshalJSON accepts the severity names emitted by MarshalJSON.
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

// CheckResult is the outcome of one diagnostic check.
type CheckResult struct {
	// Name identifies the check.
	Name string `json:"name"`

	// Category groups related checks (e.g., "registry", "config", "cloud").
	Category string `json:"category"`

	Status  Severity `json:"status"`
	Message string   `json:"message"`

	// Details carries check-specific context for the JSON report.
	Details map[string]any `json:"details,omitempty"`

	// Fixable indicates whether doctor --fix can remediate this issue.
	Fixable bool `json:"fixable,omitempty"`

	// FixHint tells the user what to do when no automatic fix exists.
	FixHint string `json:"fix_hint,omitempty"`
}

// Summary counts check results by severity.
type Summary struct {
	Passed   int `json:"passed"`
	Info     int `json:"info"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}
