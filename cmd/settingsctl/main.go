// Package main implements settingsctl, a command-line tool that reads typed
// settings and connection strings the same way applications do, which makes
// it handy for checking a deployment's configuration before rollout.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/phrazzld/appconfig/internal/config"
	"github.com/phrazzld/appconfig/internal/platform/logger"
	"github.com/phrazzld/appconfig/internal/redact"
	"github.com/phrazzld/appconfig/internal/settings"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// rootFlags are the global flags; each one, when set, overrides the
// matching configuration key.
type rootFlags struct {
	configFile string
	file       string
	envPrefix  string
	logLevel   string
	logFormat  string
	fallbacks  []string
}

func newRootCmd() *cobra.Command {
	var (
		flags rootFlags
		app   *application
	)

	rootCmd := &cobra.Command{
		Use:           "settingsctl",
		Short:         "Read typed application settings and connection strings",
		Long:          `settingsctl resolves settings from a settings document and the environment and converts them to typed values, failing with a categorized error when a value is missing or malformed.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			app, err = bootstrap(cmd, flags)
			return err
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "settingsctl config file (YAML)")
	pf.StringVarP(&flags.file, "file", "f", "", "settings document with app_settings and connection_strings")
	pf.StringVar(&flags.envPrefix, "env-prefix", "", "read overrides from environment variables with this prefix")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: json or text")
	pf.StringArrayVar(&flags.fallbacks, "fallback", nil, "legacy environment variables for a setting, KEY=VAR[,VAR...] (repeatable)")

	appFn := func() *application { return app }
	rootCmd.AddCommand(getCmd(appFn))
	rootCmd.AddCommand(splitCmd(appFn))
	rootCmd.AddCommand(connCmd(appFn))
	rootCmd.AddCommand(keysCmd(appFn))

	return rootCmd
}

// bootstrap loads configuration, sets up logging and builds the accessors.
func bootstrap(cmd *cobra.Command, flags rootFlags) (*application, error) {
	fallbacks, err := parseFallbacks(flags.fallbacks)
	if err != nil {
		return nil, err
	}

	opts := []config.LoadOption{}
	if flags.configFile != "" {
		opts = append(opts, config.WithConfigFile(flags.configFile))
	}

	fs := cmd.Flags()
	overrides := []struct {
		flag, key, value string
	}{
		{"file", "source.file", flags.file},
		{"env-prefix", "source.env_prefix", flags.envPrefix},
		{"log-level", "log.level", flags.logLevel},
		{"log-format", "log.format", flags.logFormat},
	}
	for _, o := range overrides {
		if fs.Changed(o.flag) {
			opts = append(opts, config.WithOverride(o.key, o.value))
		}
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	cmd.SetContext(logger.WithLogger(cmd.Context(), l))

	l.Debug("settingsctl configuration loaded",
		"log_level", cfg.Log.Level,
		"file", cfg.Source.File,
		"env_prefix", cfg.Source.EnvPrefix)

	return newApplication(cfg, l, fallbacks)
}

// printError writes err with credentials masked, prefixed by its kind when
// it is a configuration error.
func printError(w io.Writer, err error) {
	if kind, ok := settings.KindOf(err); ok {
		fmt.Fprintf(w, "error (%s): %s\n", kind, redact.Error(err))
		return
	}
	fmt.Fprintf(w, "error: %s\n", redact.Error(err))
}
