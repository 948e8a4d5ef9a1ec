package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// appName is the directory name used under the XDG base directories.
const appName = "skillctl"

// Registry layout names. A registry root contains a skills/ and a plugins/
// directory, with one subdirectory per document.
const (
	SkillsDirName  = "skills"
	PluginsDirName = "plugins"
	SkillFileName  = "SKILL.md"
	PluginFileName = "PLUGIN.md"
	HooksDirName   = "hooks"
	ScriptsDirName = "scripts"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// This is a thin wrapper around os.UserHomeDir for consistency.
// Note: It returns an empty string on error for backward compatibility.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// CacheHome returns the XDG cache home directory.
// On Linux: ~/.cache
// On macOS: ~/Library/Caches
// On Windows: %LOCALAPPDATA%\cache
func CacheHome() string {
	return xdg.CacheHome
}

// StateHome returns the XDG state home directory.
// On Linux: ~/.local/state
func StateHome() string {
	return xdg.StateHome
}

// ConfigDir returns the skillctl config directory.
// Returns: <ConfigHome>/skillctl/
func ConfigDir() string {
	return filepath.Join(ConfigHome(), appName)
}

// SourcesCacheDir returns the directory for cached skill collection clones.
// Returns: <CacheHome>/skillctl/sources/
func SourcesCacheDir() string {
	return filepath.Join(CacheHome(), appName, "sources")
}

// StateDir returns the directory for mutable state such as the run ledger.
// Returns: <StateHome>/skillctl/
func StateDir() string {
	return filepath.Join(StateHome(), appName)
}

// RunsDBPath returns the path of the verification run ledger database.
// Returns: <StateDir>/runs.db
func RunsDBPath() string {
	return filepath.Join(StateDir(), "runs.db")
}

// CloudConfigPath returns the path of the shared OpenHands credentials file.
// Returns: ~/.openhands/config.toml (empty string when home is unknown).
func CloudConfigPath() string {
	home := Home()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".openhands", "config.toml")
}

// SkillsDir returns the skills directory under a registry root.
func SkillsDir(root string) string {
	return filepath.Join(root, SkillsDirName)
}

// PluginsDir returns the plugins directory under a registry root.
func PluginsDir(root string) string {
	return filepath.Join(root, PluginsDirName)
}

// SkillFile returns the SKILL.md path for a named skill under a registry root.
func SkillFile(root, name string) string {
	return filepath.Join(SkillsDir(root), name, SkillFileName)
}

// PluginFile returns the PLUGIN.md path for a named plugin under a registry root.
func PluginFile(root, name string) string {
	return filepath.Join(PluginsDir(root), name, PluginFileName)
}

// HooksDir returns the hooks directory for a named plugin under a registry root.
func HooksDir(root, name string) string {
	return filepath.Join(PluginsDir(root), name, HooksDirName)
}

// ScriptsDir returns the scripts directory for a named plugin under a registry root.
func ScriptsDir(root, name string) string {
	return filepath.Join(PluginsDir(root), name, ScriptsDirName)
}
