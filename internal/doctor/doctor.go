package doctor

import "time"

// Check is one diagnostic. Checks answer from local state only; nothing
// here touches the network.
type Check interface {
	// Name identifies the check in reports.
	Name() string

	// Category groups related checks ("registry", "config", ...).
	Category() string

	// Run performs the diagnostic.
	Run() *CheckResult
}

// Runner collects checks and produces a report.
type Runner struct {
	checks []Check
}

// NewRunner returns an empty runner.
func NewRunner() *Runner {
	return &Runner{}
}

// AddCheck registers c. Checks run in registration order.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes every registered check.
func (r *Runner) Run() *DoctorReport {
	report := &DoctorReport{
		Timestamp: time.Now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}
	for _, check := range r.checks {
		result := check.Run()
		report.Results = append(report.Results, result)
		report.Summary.count(result.Status)
	}
	return report
}

// ApplyFixes runs remediation for every check that implements Fixer and
// currently has something to fix. Call after Run; fixers work from the
// issues their check recorded.
func (r *Runner) ApplyFixes() []FixResult {
	var results []FixResult
	for _, check := range r.checks {
		if fixer, ok := check.(Fixer); ok && fixer.CanFix() {
			results = append(results, fixer.Fix()...)
		}
	}
	return results
}

// DoctorReport is the outcome of one diagnostic run.
type DoctorReport struct {
	// Timestamp is when the run started.
	Timestamp time.Time `json:"timestamp"`

	// Results holds one entry per check, in run order.
	Results []*CheckResult `json:"results"`

	// Summary counts results by severity.
	Summary Summary `json:"summary"`
}

// HasErrors reports whether any check failed at error level.
func (r *DoctorReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings reports whether any check raised a warning.
func (r *DoctorReport) HasWarnings() bool {
	return r.Summary.Warnings > 0
}

func (s *Summary) count(sev Severity) {
	switch sev {
	case SeverityPass:
		s.Passed++
	case SeverityInfo:
		s.Info++
	case SeverityWarning:
		s.Warnings++
	case SeverityError:
		s.Errors++
	}
}
