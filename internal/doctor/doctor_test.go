package doctor

import (
	"encoding/json"
	"testing"
	"time"
)

// stubCheck is a minimal Check for exercising the runner.
type stubCheck struct {
	name     string
	category string
	result   *CheckResult
}

func (s *stubCheck) Name() string      { return s.name }
func (s *stubCheck) Category() string  { return s.category }
func (s *stubCheck) Run() *CheckResult { return s.result }

// stubFixer adds Fixer behavior on top of stubCheck.
type stubFixer struct {
	stubCheck
	canFix bool
	fixes  []FixResult
}

func (s *stubFixer) CanFix() bool     { return s.canFix }
func (s *stubFixer) Fix() []FixResult { return s.fixes }

func TestNewRunner(t *testing.T) {
	r := NewRunner()
	if r == nil {
		t.Fatal("NewRunner returned nil")
	}
	if len(r.checks) != 0 {
		t.Errorf("NewRunner().checks = %d, want 0", len(r.checks))
	}
}

func TestRunner_AddCheck(t *testing.T) {
	r := NewRunner()
	names := []string{"first", "second", "third"}
	for _, name := range names {
		r.AddCheck(&stubCheck{name: name})
	}

	if len(r.checks) != len(names) {
		t.Fatalf("checks count = %d, want %d", len(r.checks), len(names))
	}
	// Registration order is reporting order.
	for i, want := range names {
		if r.checks[i].Name() != want {
			t.Errorf("checks[%d].Name() = %q, want %q", i, r.checks[i].Name(), want)
		}
	}
}

func TestRunner_Run_Summary(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Severity
		want     Summary
	}{
		{"empty runner", nil, Summary{}},
		{"single pass", []Severity{SeverityPass}, Summary{Passed: 1}},
		{"single info", []Severity{SeverityInfo}, Summary{Info: 1}},
		{"single warning", []Severity{SeverityWarning}, Summary{Warnings: 1}},
		{"single error", []Severity{SeverityError}, Summary{Errors: 1}},
		{
			"mixed severities",
			[]Severity{SeverityPass, SeverityPass, SeverityInfo, SeverityWarning, SeverityWarning, SeverityError},
			Summary{Passed: 2, Info: 1, Warnings: 2, Errors: 1},
		},
		{
			"all pass",
			[]Severity{SeverityPass, SeverityPass, SeverityPass},
			Summary{Passed: 3},
		},
		{
			"all errors",
			[]Severity{SeverityError, SeverityError},
			Summary{Errors: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner()
			for _, status := range tt.statuses {
				r.AddCheck(&stubCheck{result: &CheckResult{Status: status}})
			}

			before := time.Now().UTC()
			report := r.Run()
			after := time.Now().UTC()

			if report.Timestamp.Before(before) || report.Timestamp.After(after) {
				t.Errorf("Timestamp %v outside [%v, %v]", report.Timestamp, before, after)
			}
			if len(report.Results) != len(tt.statuses) {
				t.Errorf("Results count = %d, want %d", len(report.Results), len(tt.statuses))
			}
			if report.Summary != tt.want {
				t.Errorf("Summary = %+v, want %+v", report.Summary, tt.want)
			}
		})
	}
}

func TestRunner_Run_ResultsOrder(t *testing.T) {
	r := NewRunner()
	names := []string{"first", "second", "third"}
	statuses := []Severity{SeverityPass, SeverityWarning, SeverityError}

	for i, name := range names {
		r.AddCheck(&stubCheck{result: &CheckResult{Name: name, Status: statuses[i]}})
	}

	report := r.Run()
	for i, want := range names {
		if report.Results[i].Name != want {
			t.Errorf("Results[%d].Name = %q, want %q", i, report.Results[i].Name, want)
		}
	}
}

func TestRunner_ApplyFixes(t *testing.T) {
	t.Run("collects fixes in check order", func(t *testing.T) {
		r := NewRunner()
		r.AddCheck(&stubFixer{
			canFix: true,
			fixes:  []FixResult{{Path: "a", Fixed: true}, {Path: "b", Fixed: true}},
		})
		r.AddCheck(&stubCheck{name: "not-a-fixer"})
		r.AddCheck(&stubFixer{
			canFix: true,
			fixes:  []FixResult{{Path: "c", Fixed: false}},
		})

		fixes := r.ApplyFixes()
		if len(fixes) != 3 {
			t.Fatalf("ApplyFixes: %d results, want 3", len(fixes))
		}
		for i, want := range []string{"a", "b", "c"} {
			if fixes[i].Path != want {
				t.Errorf("fixes[%d].Path = %q, want %q", i, fixes[i].Path, want)
			}
		}
	})

	t.Run("skips fixers with nothing to fix", func(t *testing.T) {
		r := NewRunner()
		r.AddCheck(&stubFixer{
			canFix: false,
			fixes:  []FixResult{{Path: "should-not-appear"}},
		})

		if fixes := r.ApplyFixes(); len(fixes) != 0 {
			t.Errorf("ApplyFixes: %d results, want 0", len(fixes))
		}
	})

	t.Run("no checks", func(t *testing.T) {
		if fixes := NewRunner().ApplyFixes(); len(fixes) != 0 {
			t.Errorf("ApplyFixes: %d results, want 0", len(fixes))
		}
	})
}

func TestDoctorReport_Flags(t *testing.T) {
	// HasErrors and HasWarnings read only their own counter.
	tests := []struct {
		name         string
		summary      Summary
		wantErrors   bool
		wantWarnings bool
	}{
		{"clean", Summary{Passed: 4}, false, false},
		{"errors only", Summary{Errors: 2}, true, false},
		{"warnings only", Summary{Warnings: 3}, false, true},
		{"both", Summary{Warnings: 1, Errors: 1}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &DoctorReport{Summary: tt.summary}
			if got := r.HasErrors(); got != tt.wantErrors {
				t.Errorf("HasErrors() = %v, want %v", got, tt.wantErrors)
			}
			if got := r.HasWarnings(); got != tt.wantWarnings {
				t.Errorf("HasWarnings() = %v, want %v", got, tt.wantWarnings)
			}
		})
	}
}

func TestDoctorReport_ZeroValue(t *testing.T) {
	var r DoctorReport

	if r.HasErrors() || r.HasWarnings() {
		t.Error("zero-value report should be clean")
	}
	if !r.Timestamp.IsZero() {
		t.Error("zero-value Timestamp should be zero time")
	}
	if r.Results != nil {
		t.Error("zero-value Results should be nil")
	}
}

func TestSeverity_JSONRoundTrip(t *testing.T) {
	for _, sev := range []Severity{SeverityPass, SeverityInfo, SeverityWarning, SeverityError} {
		data, err := json.Marshal(sev)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", sev, err)
		}
		var got Severity
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if got != sev {
			t.Errorf("round trip: got %v, want %v", got, sev)
		}
	}

	var sev Severity
	if err := json.Unmarshal([]byte(`"fatal"`), &sev); err == nil {
		t.Error("Unmarshal accepted unknown severity")
	}
}
