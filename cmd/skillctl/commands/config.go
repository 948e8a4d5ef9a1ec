package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/config"
	"github.com/openhands/skillctl/internal/editor"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/paths"
	"github.com/openhands/skillctl/pkg/fileutil"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage skillctl configuration",
	Long: `Manage skillctl configuration.

The config file is config.yaml in the current directory or the XDG
config dir, whichever loads first. Without a subcommand, lists all
configuration values.`,
	Example: `  # List all configuration
  skillctl config

  # Get a specific value
  skillctl config get registry

  # Set a value
  skillctl config set test.max_wait 30m

See Also: skillctl init, skillctl doctor`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Keys use dot notation for nested values (cloud.base_url, test.poll).`,
	Example: `  # Get the registry root
  skillctl config get registry

  # Get the harness poll interval
  skillctl config get test.poll

See Also: skillctl config set, skillctl config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write it back to the config file.

Durations accept Go syntax ("20m", "90s"). Registered sources are
preserved; manage them with skillctl source, not config set.`,
	Example: `  # Point the registry somewhere else
  skillctl config set registry ~/registry

  # Slow down harness polling
  skillctl config set test.poll 1m

See Also: skillctl config get, skillctl config list`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format.`,
	Example: `  # List all configuration
  skillctl config list

See Also: skillctl config get, skillctl config set`,
	RunE: runConfigList,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your editor ($EDITOR, then $VISUAL,
then nano, then vi).

If no configuration file exists yet, run 'skillctl init' first.`,
	Example: `  # Open config in the default editor
  skillctl config edit

  # Open with a specific editor
  EDITOR=nano skillctl config edit

See Also: skillctl config list, skillctl init`,
	RunE: runConfigEdit,
}

// configKeys are the settable scalar keys, in display order.
var configKeys = []string{
	"version",
	"registry",
	"cloud.base_url",
	"test.max_wait",
	"test.poll",
	"notify.webhook_url",
}

func runConfigGet(_ *cobra.Command, args []string) error {
	return runConfigGetWithWriter(os.Stdout, args[0])
}

func runConfigGetWithWriter(w io.Writer, key string) error {
	value, ok := configValue(flags.Config(), key)
	if !ok {
		return errors.NewUsageError(
			errors.Newf("unknown config key %q", key),
			"Valid keys: "+strings.Join(configKeys, ", "))
	}
	fmt.Fprintln(w, value)
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	return runConfigSetWithWriter(os.Stdout, args[0], args[1])
}

func runConfigSetWithWriter(w io.Writer, key, value string) error {
	cfg := flags.Config()
	if err := applyConfigValue(cfg, key, value); err != nil {
		return err
	}

	if err := writeConfigFile(cfg); err != nil {
		return err
	}

	fmt.Fprintf(w, "Set %s = %s\n", key, value)
	return nil
}

func runConfigList(_ *cobra.Command, _ []string) error {
	return runConfigListWithWriter(os.Stdout)
}

func runConfigListWithWriter(w io.Writer) error {
	data, err := yaml.Marshal(configDisplayMap(flags.Config()))
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	fmt.Fprint(w, string(data))
	return nil
}

func runConfigEdit(_ *cobra.Command, _ []string) error {
	configPath := config.FileUsed()
	if configPath == "" {
		return errors.NewUserError(
			errors.New("no config file found"),
			"Run 'skillctl init' to create one")
	}

	return editor.Open(configPath)
}

// configValue reads one key from the loaded configuration.
func configValue(cfg *config.Config, key string) (string, bool) {
	switch key {
	case "version":
		return strconv.Itoa(cfg.Version), true
	case "registry":
		return cfg.Registry, true
	case "cloud.base_url":
		return cfg.Cloud.BaseURL, true
	case "test.max_wait":
		return cfg.Test.MaxWait.String(), true
	case "test.poll":
		return cfg.Test.Poll.String(), true
	case "notify.webhook_url":
		return cfg.Notify.WebhookURL, true
	default:
		return "", false
	}
}

// applyConfigValue parses value and stores it under key.
func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "version":
		v, err := strconv.Atoi(value)
		if err != nil {
			return errors.NewUsageError(
				errors.Newf("version must be an integer, got %q", value), "")
		}
		cfg.Version = v
	case "registry":
		cfg.Registry = value
	case "cloud.base_url":
		cfg.Cloud.BaseURL = value
	case "test.max_wait", "test.poll":
		d, err := time.ParseDuration(value)
		if err != nil {
			return errors.NewUsageError(
				errors.Newf("%s must be a duration like 20m or 90s, got %q", key, value), "")
		}
		if key == "test.max_wait" {
			cfg.Test.MaxWait = d
		} else {
			cfg.Test.Poll = d
		}
	case "notify.webhook_url":
		cfg.Notify.WebhookURL = value
	default:
		return errors.NewUsageError(
			errors.Newf("unknown config key %q", key),
			"Valid keys: "+strings.Join(configKeys, ", "))
	}
	return nil
}

// configDisplayMap renders the configuration with durations as strings,
// the same syntax config set accepts.
func configDisplayMap(cfg *config.Config) map[string]any {
	out := map[string]any{
		"version":  cfg.Version,
		"registry": cfg.Registry,
		"cloud":    map[string]any{"base_url": cfg.Cloud.BaseURL},
		"test": map[string]any{
			"max_wait": cfg.Test.MaxWait.String(),
			"poll":     cfg.Test.Poll.String(),
		},
	}
	if cfg.Notify.WebhookURL != "" {
		out["notify"] = map[string]any{"webhook_url": cfg.Notify.WebhookURL}
	}
	if len(cfg.Sources) > 0 {
		out["sources"] = cfg.Sources
	}
	return out
}

// writeConfigFile writes cfg back to the file it was loaded from, or to
// the XDG config dir when running on defaults. Sources ride along, so a
// set never drops registrations.
func writeConfigFile(cfg *config.Config) error {
	configPath := config.FileUsed()
	if configPath == "" {
		configPath = filepath.Join(paths.ConfigDir(), "config.yaml")
		if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
			return errors.Wrap(err, "creating config directory")
		}
	}

	if err := fileutil.AtomicWriteYAML(configPath, configDisplayMap(cfg)); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}
