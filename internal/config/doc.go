// Package config provides configuration management for the skillctl CLI.
//
// This package handles loading and validating the tool's own configuration
// file. It is distinct from the hosted-service credentials, which are
// resolved separately from the environment or ~/.openhands/config.toml.
//
// # Configuration File
//
// The default configuration file location is ~/.config/skillctl/config.yaml,
// with the current directory searched first. The configuration file uses
// YAML format with the following structure:
//
//	version: 1
//	registry: /path/to/registry   # optional, defaults to the current directory
//	cloud:
//	  base_url: https://app.all-hands.dev
//	test:
//	  max_wait: 20m
//	  poll: 30s
//	notify:
//	  webhook_url: https://discord.com/api/webhooks/...
//
// # Loading Configuration
//
// Call [Init] once at startup, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return fmt.Errorf("loading config: %w", err)
//	}
//
// An empty path searches the default locations and falls back to defaults
// when no file exists. A non-empty path must name an existing file.
//
// Every key can also be supplied through the environment with the SKILLCTL_
// prefix, for example SKILLCTL_REGISTRY or SKILLCTL_CLOUD_BASE_URL.
//
// # Validation
//
// Loaded configurations are validated automatically. You can also validate
// a configuration manually:
//
//	errs := config.Validate(cfg)
//	if len(errs) > 0 {
//	    for _, e := range errs {
//	        fmt.Println(e)
//	    }
//	}
//
// # Default Values
//
// The [Default] function returns a configuration with sensible defaults:
//
//	cfg := config.Default()
//	// cfg.Version = 1
//	// cfg.Registry = "."
//	// cfg.Cloud.BaseURL = "https://app.all-hands.dev"
package config
