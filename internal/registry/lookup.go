package registry

import (
	"errors"
	"path/filepath"

	"github.com/openhands/skillctl/internal/paths"
	"github.com/openhands/skillctl/internal/source"
)

// ErrNoSourcesConfigured is returned when no source collections are configured.
var ErrNoSourcesConfigured = errors.New("no sources configured")

// FindByName scans all configured sources and returns entries matching the
// given name and kind exactly. Returns an empty slice if no matches found.
func FindByName(name string, kind Kind) ([]Entry, error) {
	configPath := filepath.Join(paths.ConfigDir(), "config.yaml")
	mgr := source.NewManager(configPath)

	sources, err := mgr.List()
	if err != nil {
		return nil, err
	}

	if len(sources) == 0 {
		return nil, ErrNoSourcesConfigured
	}

	scanner := NewScanner()
	entries, err := scanner.ScanSources(sources)
	if err != nil {
		return nil, err
	}

	return filterByNameAndKind(entries, name, kind), nil
}

// FindInSource scans a specific source and returns the entry matching the
// given name and kind exactly. Returns nil if no match found.
func FindInSource(name string, kind Kind, sourceName string) (*Entry, error) {
	configPath := filepath.Join(paths.ConfigDir(), "config.yaml")
	mgr := source.NewManager(configPath)

	src, err := mgr.Get(sourceName)
	if err != nil {
		return nil, err
	}

	scanner := NewScanner()
	entries, err := scanner.ScanRoot(src.Path, src.Name, src.URL)
	if err != nil {
		return nil, err
	}

	matches := filterByNameAndKind(entries, name, kind)
	if len(matches) == 0 {
		return nil, nil
	}

	return &matches[0], nil
}

// filterByNameAndKind filters entries by exact name and kind match.
func filterByNameAndKind(entries []Entry, name string, kind Kind) []Entry {
	var matches []Entry
	for _, e := range entries {
		if e.Name == name && e.Kind == kind {
			matches = append(matches, e)
		}
	}
	return matches
}
