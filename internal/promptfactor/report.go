package promptfactor

import (
	"fmt"
	"io"
	"strings"
)

const reportWidth = 80

// WriteReport renders the analysis as a human-readable report.
func WriteReport(w io.Writer, a *Analysis) {
	rule := strings.Repeat("=", reportWidth)
	thin := strings.Repeat("-", reportWidth)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "PROMPT ANALYSIS RESULTS")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "\nOriginal prompt length: %d characters\n", a.OriginalLength)
	fmt.Fprintf(w, "Number of phases identified: %d\n", a.NumPhases)

	fmt.Fprintf(w, "\n%s\n", thin)
	fmt.Fprintln(w, "IDENTIFIED PHASES:")
	fmt.Fprintln(w, thin)
	for i, p := range a.Phases {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, p.Title)
		fmt.Fprintf(w, "   Type: %s\n", p.Type)
		if p.Number > 0 {
			fmt.Fprintf(w, "   Phase number: %d\n", p.Number)
		}
	}

	fmt.Fprintf(w, "\n%s\n", thin)
	fmt.Fprintln(w, "SUGGESTED SKILLS:")
	fmt.Fprintln(w, thin)
	for i, s := range a.SuggestedSkills {
		fmt.Fprintf(w, "\n%d. Skill: %s\n", i+1, s.Name)
		fmt.Fprintf(w, "   Original phase: %s\n", s.PhaseTitle)
		fmt.Fprintf(w, "   Type: %s\n", s.Type)
		fmt.Fprintf(w, "   Reusability: %s\n", s.Reusability)
	}

	fmt.Fprintf(w, "\n%s\n", rule)
}
