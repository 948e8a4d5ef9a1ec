// Package commands implements the CLI commands for skillctl.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd"
	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/config"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/logging"
)

// EnvRegistry overrides the registry root when the --registry flag is unset.
const EnvRegistry = "SKILLCTL_REGISTRY"

// configFlag holds the value of the --config flag.
var configFlag string

// registryFlag holds the value of the --registry flag.
var registryFlag string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"config file (default: ./config.yaml, then XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&registryFlag, "registry", "",
		"registry root (default: $SKILLCTL_REGISTRY, config, then current directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("skillctl version {{.Version}}\n")

	// Silence errors and usage so main controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	// Capture load errors for later reporting
	var loaded *config.Config
	loaded, configLoadErr = config.Load(configFlag)
	if configLoadErr == nil {
		flags.SetConfig(loaded)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skillctl",
	Short: "Manage a registry of agent skills and plugins",
	Long: `skillctl manages a registry of agent skills and plugins: Markdown
documents with YAML frontmatter that teach an AI coding agent when and
how to perform a task.

It validates documents and plugin hooks, scaffolds new entries, pulls
skills from external collections, and verifies plugins end to end by
driving real conversations against the OpenHands cloud API.

The registry root defaults to the current directory; override it with
--registry, SKILLCTL_REGISTRY, or the registry key in config.yaml.`,
	Example: `  # Validate every document in the registry
  skillctl validate

  # List installed skills
  skillctl skill list

  # Run a plugin against the cloud and check the trajectory
  skillctl plugin test --plugin git-helper --message "commit this" --expect "git commit"

  # Check registry and environment health
  skillctl doctor

  See Also: skillctl init, skillctl doctor, skillctl config`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return resolveWorkspace(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("SKILLCTL_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		// File output is JSON with rotation
		handlers = append(handlers, logging.NewFileHandler(logFile, level))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// resolveWorkspace surfaces config load errors and pins down the registry
// root for this invocation.
func resolveWorkspace(cmd *cobra.Command, _ []string) error {
	// Skip for commands that never touch the registry
	if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "gen-doc" {
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	flags.SetRegistryRoot(resolveRegistryRoot())
	return nil
}

// resolveRegistryRoot applies the precedence chain for the registry root:
// --registry flag, SKILLCTL_REGISTRY, config file, current directory.
func resolveRegistryRoot() string {
	if registryFlag != "" {
		return registryFlag
	}
	if env := os.Getenv(EnvRegistry); env != "" {
		return env
	}
	if reg := flags.Config().Registry; reg != "" {
		return reg
	}
	return "."
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
