// Package paths provides path resolution for the skill registry and the
// CLI's own directories.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. On Linux and macOS, paths follow XDG conventions
// (~/.config, ~/.local/share, ~/.cache, ~/.local/state).
//
//	paths.ConfigDir()       // <XDG_CONFIG_HOME>/skillctl/
//	paths.SourcesCacheDir() // <XDG_CACHE_HOME>/skillctl/sources/
//	paths.RunsDBPath()      // <XDG_STATE_HOME>/skillctl/runs.db
//
// # Registry Layout
//
// A registry root holds one directory per document:
//
//	skills/<name>/SKILL.md
//	plugins/<name>/PLUGIN.md
//	plugins/<name>/hooks/*.sh
//	plugins/<name>/scripts/*
//
// The layout helpers (SkillsDir, PluginFile, HooksDir, ...) build these
// paths from a root; they never touch the filesystem.
//
// # Credentials
//
// [CloudConfigPath] points at the shared ~/.openhands/config.toml file that
// other OpenHands tooling writes. It is one step of the credential lookup
// chain; see the openhands client package.
package paths
