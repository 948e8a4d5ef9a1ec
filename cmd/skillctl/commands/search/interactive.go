package search

import (
	"fmt"
	"io"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/registry"
)

func runInteractiveSearch(w io.Writer, entries []registry.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No matches.")
		return nil
	}

	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string {
			return fmt.Sprintf("%s: %s (%s)", entries[i].Kind, entries[i].Name, sourceLabel(entries[i]))
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			e := entries[i]
			preview := fmt.Sprintf("Kind: %s\nSource: %s\nName: %s\n",
				e.Kind,
				sourceLabel(e),
				e.Name,
			)
			if len(e.Triggers) > 0 {
				preview += fmt.Sprintf("Triggers: %s\n", strings.Join(e.Triggers, ", "))
			}
			return preview + fmt.Sprintf("\nDescription:\n%s", e.Description)
		}),
	)

	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive search failed")
	}

	// Output the selected item in a nice format
	e := entries[idx]
	fmt.Fprintf(w, "Selected: %s (%s)\n", e.Name, e.Kind)
	fmt.Fprintf(w, "Source: %s\n", sourceLabel(e))
	fmt.Fprintf(w, "Path: %s\n", e.DocPath())
	fmt.Fprintf(w, "Description: %s\n", e.Description)

	return nil
}
