// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/registry"
)

// Sentinel errors for entry selection.
var (
	ErrNoEntries          = errors.New("no entries to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector handles interactive registry entry selection prompts. A name can
// match entries in the local registry and in several source collections at
// once; the selector disambiguates.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return &Selector{reader: os.Stdin, writer: os.Stdout}
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{reader: r, writer: w}
}

// SelectEntry prompts the user to choose one of entries. A single-entry list
// is returned directly without prompting, an empty answer picks the first
// entry, and EOF (Ctrl+D) yields ErrSelectionCancelled.
func (s *Selector) SelectEntry(query string, entries []registry.Entry) (*registry.Entry, error) {
	switch len(entries) {
	case 0:
		return nil, ErrNoEntries
	case 1:
		return &entries[0], nil
	}

	fmt.Fprintf(s.writer, "Multiple entries found for %q:\n", query)
	for i, e := range entries {
		fmt.Fprintf(s.writer, "  [%d] %s (%s, %s)\n", i+1, e.Name, e.Kind, describeOrigin(&e))
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	input, err := bufio.NewReader(s.reader).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return &entries[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if selection < 1 || selection > len(entries) {
		return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(entries))
	}
	return &entries[selection-1], nil
}

// SelectEntryDefault is a convenience function that uses stdin/stdout.
func SelectEntryDefault(query string, entries []registry.Entry) (*registry.Entry, error) {
	return NewSelector().SelectEntry(query, entries)
}

func describeOrigin(e *registry.Entry) string {
	if e.IsLocal() {
		return "local"
	}
	return "from " + e.Source
}
