package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.encodeJSON(result)
	default:
		return r.reportText(result)
	}
}

// ReportDocument writes a single-document validation report.
func (r *Reporter) ReportDocument(rep *DocumentReport) error {
	if rep == nil {
		return nil
	}
	if r.format == FormatJSON {
		return r.encodeJSON(rep)
	}
	r.printDocument(rep)
	return nil
}

// ReportTree writes a whole-tree validation report: one line per
// document with its issues indented, tree-level issues, then a summary.
func (r *Reporter) ReportTree(tree *TreeReport) error {
	if tree == nil {
		return nil
	}
	if r.format == FormatJSON {
		return r.encodeJSON(tree)
	}

	valid := 0
	for i := range tree.Documents {
		r.printDocument(&tree.Documents[i])
		if tree.Documents[i].Valid {
			valid++
		}
	}

	if len(tree.Issues) > 0 {
		fmt.Fprintln(r.out, "Registry issues:")
		for _, issue := range tree.Issues {
			r.printIssue(issue, severityColor(issue.Severity))
		}
	}

	invalid := len(tree.Documents) - valid
	if invalid == 0 && len(tree.Issues) == 0 {
		fmt.Fprintf(r.out, "\n%s\n", color.GreenString("%d document(s) checked, all valid", len(tree.Documents)))
		return nil
	}
	fmt.Fprintf(r.out, "\n%d document(s) checked: %d valid, %s\n",
		len(tree.Documents), valid, color.RedString("%d invalid", invalid))
	return nil
}

// encodeJSON writes any report shape as indented JSON.
func (r *Reporter) encodeJSON(v any) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(v), "encoding JSON report")
}

// printDocument writes one document's status line and its issues.
func (r *Reporter) printDocument(rep *DocumentReport) {
	label := rep.Kind + "/" + rep.Name
	if rep.Valid {
		fmt.Fprintln(r.out, color.GreenString("✓ %s", label))
	} else {
		fmt.Fprintln(r.out, color.RedString("✗ %s", label))
	}
	for _, issue := range rep.Issues {
		r.printIssue(issue, severityColor(issue.Severity))
	}
}

func severityColor(s Severity) color.Attribute {
	switch s {
	case SeverityError:
		return color.FgRed
	case SeverityWarning:
		return color.FgYellow
	default:
		return color.FgHiBlack
	}
}

// reportText writes the result as human-readable text.
func (r *Reporter) reportText(result *Result) error {
	if !result.HasErrors() && !result.HasWarnings() {
		fmt.Fprintln(r.out, color.GreenString("✓ Validation passed"))
		return nil
	}

	// Group issues by severity
	errors := result.Errors()
	warnings := result.Warnings()

	// Print Summary
	summary := []string{}
	if len(errors) > 0 {
		summary = append(summary, color.RedString("%d error(s)", len(errors)))
	}
	if len(warnings) > 0 {
		summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
	}
	fmt.Fprintf(r.out, "Validation failed: %s\n\n", strings.Join(summary, ", "))

	// Print Errors
	if len(errors) > 0 {
		fmt.Fprintln(r.out, "Errors:")
		for _, err := range errors {
			r.printIssue(err, color.FgRed)
		}
		fmt.Fprintln(r.out)
	}

	// Print Warnings
	if len(warnings) > 0 {
		fmt.Fprintln(r.out, "Warnings:")
		for _, warn := range warnings {
			r.printIssue(warn, color.FgYellow)
		}
		fmt.Fprintln(r.out)
	}

	return nil
}

func (r *Reporter) printIssue(i Issue, c color.Attribute) {
	printer := color.New(c).SprintFunc()

	// Format:  • [field] message (context)

	var sb strings.Builder
	sb.WriteString("  • ")

	if i.Field != "" {
		sb.WriteString(printer(i.Field))
		sb.WriteString(": ")
	}

	sb.WriteString(i.Message)

	// Add context if present
	if len(i.Context) > 0 {
		var ctxParts []string
		for k, v := range i.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%s", k, v))
		}
		// Sort for deterministic output
		sort.Strings(ctxParts)

		sb.WriteString(" ")
		sb.WriteString(color.New(color.FgHiBlack).Sprintf("(%s)", strings.Join(ctxParts, ", ")))
	}

	if i.Value != nil {
		valStr := fmt.Sprintf("%v", i.Value)
		// Truncate long values
		if len(valStr) > 50 {
			valStr = valStr[:47] + "..."
		}
		sb.WriteString(color.New(color.FgHiBlack).Sprintf(" [%s]", valStr))
	}

	fmt.Fprintln(r.out, sb.String())
}
