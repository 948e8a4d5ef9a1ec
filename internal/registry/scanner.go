// Package registry provides discovery of skills and plugins across the local
// registry tree and cached source collections.
package registry

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/openhands/skillctl/internal/config"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/pkg/frontmatter"
)

// Scanner scans registry trees for entries.
type Scanner struct {
	logger *slog.Logger
}

// NewScanner creates a new Scanner with a default stderr logger at warn level.
func NewScanner() *Scanner {
	return &Scanner{
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})),
	}
}

// NewScannerWithLogger creates a new Scanner with the given logger.
func NewScannerWithLogger(logger *slog.Logger) *Scanner {
	return &Scanner{logger: logger}
}

// ScanRoot scans a single tree for skills and plugins.
// For the local registry, sourceName and sourceURL are empty.
// A listing never fails because one document is broken: unreadable or
// unparseable entries are logged and skipped.
func (s *Scanner) ScanRoot(root, sourceName, sourceURL string) ([]Entry, error) {
	entries := make([]Entry, 0, 2)

	skillEntries, err := s.scanKind(root, KindSkill, sourceName, sourceURL)
	if err != nil {
		s.logger.Warn("failed to scan skills directory",
			"root", root,
			"error", err)
	}
	entries = append(entries, skillEntries...)

	pluginEntries, err := s.scanKind(root, KindPlugin, sourceName, sourceURL)
	if err != nil {
		s.logger.Warn("failed to scan plugins directory",
			"root", root,
			"error", err)
	}
	entries = append(entries, pluginEntries...)

	return entries, nil
}

// ScanSources scans multiple source collections concurrently.
// It uses a worker pool limited to GOMAXPROCS to parallelize scanning.
func (s *Scanner) ScanSources(sources []config.SourceConfig) ([]Entry, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	// Limit concurrency to GOMAXPROCS or number of sources, whichever is smaller
	workers := runtime.GOMAXPROCS(0)
	if len(sources) < workers {
		workers = len(sources)
	}

	// Channel to send work to workers
	work := make(chan config.SourceConfig, len(sources))

	// Collect results from workers
	type scanResult struct {
		entries    []Entry
		sourceName string
	}
	results := make(chan scanResult, len(sources))

	// Start workers
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range work {
				srcEntries, err := s.ScanRoot(src.Path, src.Name, src.URL)
				if err != nil {
					s.logger.Warn("failed to scan source",
						"source", src.Name,
						"path", src.Path,
						"error", err)
					results <- scanResult{sourceName: src.Name}
					continue
				}
				results <- scanResult{entries: srcEntries, sourceName: src.Name}
			}
		}()
	}

	// Send work to workers
	for _, src := range sources {
		work <- src
	}
	close(work)

	// Close results channel when all workers are done
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect all results
	var entries []Entry
	for result := range results {
		entries = append(entries, result.entries...)
	}

	return entries, nil
}

// docMeta holds the frontmatter fields extracted for listings. Bodies are
// never read here; metadata is all a listing needs.
type docMeta struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Triggers    []string `yaml:"triggers"`
}

// scanKind scans the directory for one kind of entry.
func (s *Scanner) scanKind(root string, kind Kind, sourceName, sourceURL string) ([]Entry, error) {
	kindDir := filepath.Join(root, kind.DirName())

	dirEntries, err := os.ReadDir(kindDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		if os.IsPermission(err) {
			s.logger.Warn("permission denied reading directory",
				"path", kindDir,
				"error", err)
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading directory %s", kindDir)
	}

	entries := make([]Entry, 0, len(dirEntries))

	for _, dirEntry := range dirEntries {
		if !dirEntry.IsDir() {
			continue
		}

		docPath := filepath.Join(kindDir, dirEntry.Name(), kind.DocFile())
		file, err := os.Open(docPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			if os.IsPermission(err) {
				s.logger.Warn("permission denied reading document",
					"path", docPath)
				continue
			}
			s.logger.Warn("failed to open document",
				"path", docPath,
				"error", err)
			continue
		}

		var meta docMeta
		if err := frontmatter.ParseHeader(file, &meta); err != nil {
			file.Close()
			s.logger.Warn("failed to parse frontmatter",
				"path", docPath,
				"error", err)
			continue
		}
		file.Close()

		// Use directory name if name not in frontmatter
		name := meta.Name
		if name == "" {
			name = dirEntry.Name()
		}

		entries = append(entries, Entry{
			Name:        name,
			Description: meta.Description,
			Kind:        kind,
			Triggers:    meta.Triggers,
			Source:      sourceName,
			SourceURL:   sourceURL,
			Path:        filepath.Join(kind.DirName(), dirEntry.Name()),
			Root:        root,
		})
	}

	return entries, nil
}
