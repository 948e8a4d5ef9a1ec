// Package source manages skill collections: git repositories registered as
// installable sources of skills and plugins.
package source

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/openhands/skillctl/internal/config"
	"github.com/openhands/skillctl/internal/git"
	"github.com/openhands/skillctl/internal/paths"
	"github.com/openhands/skillctl/pkg/fileutil"
)

// Sentinel errors for source operations.
var (
	ErrNotFound           = errors.New("source not found")
	ErrInvalidURL         = errors.New("invalid git URL")
	ErrNameCollision      = errors.New("source with this name already exists")
	ErrInvalidName        = errors.New("invalid source name")
	ErrCacheCleanupFailed = errors.New("cache cleanup failed")
)

// namePattern validates source names.
// Names must be lowercase alphanumeric with hyphens, starting with a letter.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// Option configures Add behavior.
type Option func(*addOptions)

// addOptions holds optional parameters for Add.
type addOptions struct {
	name string
}

// WithName overrides the source name derived from the URL.
func WithName(name string) Option {
	return func(o *addOptions) {
		o.name = name
	}
}

// Manager manages skill collections.
type Manager struct {
	configPath string // Path to config file for persistence
	cacheDir   string // Where collections are cloned
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithCacheDir overrides where collections are cloned.
// Tests use this to avoid touching the real cache.
func WithCacheDir(dir string) ManagerOption {
	return func(m *Manager) {
		m.cacheDir = dir
	}
}

// NewManager creates a new source manager.
// The configPath specifies where the config file is stored.
func NewManager(configPath string, opts ...ManagerOption) *Manager {
	m := &Manager{
		configPath: configPath,
		cacheDir:   paths.SourcesCacheDir(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add clones a collection and registers it in the config.
// Returns the created SourceConfig or an error.
func (m *Manager) Add(url string, opts ...Option) (*config.SourceConfig, error) {
	// Apply options
	var options addOptions
	for _, opt := range opts {
		opt(&options)
	}

	// A local directory is registered in place, never cloned. URL-shaped
	// arguments are always treated as remotes, even when a directory of
	// the same name exists.
	if !git.IsURL(url) {
		if info, err := os.Stat(url); err == nil && info.IsDir() {
			return m.addLocal(url, options)
		}
	}

	// Validate URL
	if err := git.ValidateURL(url); err != nil {
		return nil, errors.Mark(err, ErrInvalidURL)
	}

	// Derive name from URL if not provided
	name := options.name
	if name == "" {
		name = deriveNameFromURL(url)
	}

	// Validate name
	if !namePattern.MatchString(name) {
		return nil, errors.WithDetailf(ErrInvalidName, "name %q must be lowercase alphanumeric with hyphens, starting with a letter", name)
	}

	// Load config to check for collisions
	cfg, err := m.loadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}

	// Check for name collision
	if cfg.Sources != nil {
		if existing, exists := cfg.Sources[name]; exists {
			return nil, errors.WithDetailf(ErrNameCollision,
				"name %q is already used by %s; use --name to specify an alternate name",
				name, existing.URL)
		}
	}

	// Create cache directory
	if err := os.MkdirAll(m.cacheDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating cache directory")
	}

	// Build destination path
	destPath := filepath.Join(m.cacheDir, name)

	// Clone collection - clean up partial clone on failure
	if err := git.Clone(url, destPath, 1); err != nil {
		// Remove any partially-created directory
		if cleanupErr := os.RemoveAll(destPath); cleanupErr != nil {
			return nil, errors.Wrapf(err, "cloning collection (cleanup also failed: %v)", cleanupErr)
		}
		return nil, errors.Wrap(err, "cloning collection")
	}

	// Create source config entry
	src := config.SourceConfig{
		URL:     url,
		Name:    name,
		Path:    destPath,
		AddedAt: time.Now(),
	}

	// Initialize sources map if nil
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]config.SourceConfig)
	}

	// Add source to config
	cfg.Sources[name] = src

	// Save config
	if err := m.saveConfig(cfg); err != nil {
		// Clean up cloned collection on save failure
		os.RemoveAll(destPath)
		return nil, errors.Wrap(err, "saving config")
	}

	return &src, nil
}

// addLocal registers a local directory as a source without cloning.
func (m *Manager) addLocal(dir string, options addOptions) (*config.SourceConfig, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving path %q", dir)
	}

	name := options.name
	if name == "" {
		name = deriveNameFromURL(absPath)
	}

	if !namePattern.MatchString(name) {
		return nil, errors.WithDetailf(ErrInvalidName, "name %q must be lowercase alphanumeric with hyphens, starting with a letter", name)
	}

	cfg, err := m.loadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}

	if cfg.Sources != nil {
		if existing, exists := cfg.Sources[name]; exists {
			return nil, errors.WithDetailf(ErrNameCollision,
				"name %q is already used by %s; use --name to specify an alternate name",
				name, existing.URL)
		}
	}

	src := config.SourceConfig{
		URL:     absPath,
		Name:    name,
		Path:    absPath,
		AddedAt: time.Now(),
		Local:   true,
	}

	if cfg.Sources == nil {
		cfg.Sources = make(map[string]config.SourceConfig)
	}
	cfg.Sources[name] = src

	if err := m.saveConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "saving config")
	}

	return &src, nil
}

// List returns all registered sources.
// Returns an empty slice if no sources are registered.
func (m *Manager) List() ([]config.SourceConfig, error) {
	cfg, err := m.loadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}

	if cfg.Sources == nil {
		return []config.SourceConfig{}, nil
	}

	sources := make([]config.SourceConfig, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		sources = append(sources, src)
	}

	return sources, nil
}

// Remove unregisters a source and deletes its cached clone.
// The config is persisted before deleting cached data to ensure
// consistent state if the operation fails partway through.
func (m *Manager) Remove(name string) error {
	cfg, err := m.loadConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	if cfg.Sources == nil {
		return errors.WithDetailf(ErrNotFound, "source %q not found", name)
	}

	src, exists := cfg.Sources[name]
	if !exists {
		return errors.WithDetailf(ErrNotFound, "source %q not found", name)
	}

	// Remove from config first
	delete(cfg.Sources, name)

	// Persist config before deleting data - if this fails, cached data remains intact
	if err := m.saveConfig(cfg); err != nil {
		return errors.Wrap(err, "saving config")
	}

	// Local sources are referenced in place; only the registration goes away
	if src.Local {
		return nil
	}

	// Remove cached directory - if this fails, the config is already
	// updated, so the source is "removed" from skillctl's perspective
	if err := os.RemoveAll(src.Path); err != nil {
		return errors.Wrapf(ErrCacheCleanupFailed, "config updated but failed to remove cached directory %q: %v", src.Path, err)
	}

	return nil
}

// Update pulls the latest changes for sources.
// If name is provided, only that source is updated.
// If name is empty, all sources are updated.
func (m *Manager) Update(name string) error {
	cfg, err := m.loadConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	if len(cfg.Sources) == 0 {
		if name != "" {
			return errors.WithDetailf(ErrNotFound, "source %q not found", name)
		}
		return nil // No sources to update
	}

	// Update specific source
	if name != "" {
		src, exists := cfg.Sources[name]
		if !exists {
			return errors.WithDetailf(ErrNotFound, "source %q not found", name)
		}
		if src.Local {
			return nil
		}
		return git.Pull(src.Path)
	}

	// Update all sources - return first error encountered
	for _, src := range cfg.Sources {
		if src.Local {
			continue
		}
		if err := git.Pull(src.Path); err != nil {
			return errors.Wrapf(err, "updating source %q", src.Name)
		}
	}

	return nil
}

// Get retrieves a source by name.
func (m *Manager) Get(name string) (*config.SourceConfig, error) {
	cfg, err := m.loadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}

	if cfg.Sources == nil {
		return nil, errors.WithDetailf(ErrNotFound, "source %q not found", name)
	}

	src, exists := cfg.Sources[name]
	if !exists {
		return nil, errors.WithDetailf(ErrNotFound, "source %q not found", name)
	}

	return &src, nil
}

// deriveNameFromURL extracts a source name from a git URL.
// It takes the last path segment and strips the .git suffix if present.
func deriveNameFromURL(url string) string {
	// Handle SSH URLs (git@github.com:user/repo.git)
	if strings.HasPrefix(url, "git@") {
		if colonIdx := strings.LastIndex(url, ":"); colonIdx != -1 {
			url = url[colonIdx+1:]
		}
	}

	// Get the last path segment
	name := filepath.Base(url)

	// Strip .git suffix
	name = strings.TrimSuffix(name, ".git")

	// Convert to lowercase
	name = strings.ToLower(name)

	return name
}

// loadConfig loads the configuration from the manager's config path.
// If the config file doesn't exist, it returns a default config.
func (m *Manager) loadConfig() (*config.Config, error) {
	// Check if config file exists
	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		cfg := config.Default()
		cfg.Sources = make(map[string]config.SourceConfig)
		return cfg, nil
	}

	// Initialize viper with defaults
	config.Init()

	// Load from the specified path
	return config.Load(m.configPath)
}

// saveConfig saves the configuration to the manager's config path.
func (m *Manager) saveConfig(cfg *config.Config) error {
	// Ensure parent directory exists
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	return fileutil.AtomicWriteYAML(m.configPath, cfg)
}
