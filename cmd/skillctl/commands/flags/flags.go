// Package flags provides shared state for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (skill, plugin, source, etc.).
package flags

import "github.com/openhands/skillctl/internal/config"

// registryRoot holds the resolved registry root for the current invocation.
var registryRoot = "."

// RegistryRoot returns the registry root resolved by the root command
// (--registry flag, then SKILLCTL_REGISTRY, then config, then cwd).
func RegistryRoot() string {
	return registryRoot
}

// SetRegistryRoot records the resolved registry root. The root command
// sets it after flag parsing; tests set it directly.
func SetRegistryRoot(root string) {
	registryRoot = root
}

// cfg holds the loaded configuration for the current invocation.
var cfg *config.Config

// Config returns the loaded configuration. It never returns nil; before
// the root command has run it falls back to the built-in defaults.
func Config() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// SetConfig records the loaded configuration.
func SetConfig(c *config.Config) {
	cfg = c
}
