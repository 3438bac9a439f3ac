package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/phrazzld/appconfig/internal/config"
	"github.com/phrazzld/appconfig/internal/settings"
	"github.com/phrazzld/appconfig/internal/source"
)

// connEnvInfix separates connection string variables from plain settings in
// the environment: with prefix ORDERS_, connection "Main" reads ORDERS_CONN_MAIN.
const connEnvInfix = "CONN_"

// keyLister is implemented by sources that can enumerate their keys.
type keyLister interface {
	Keys() []string
}

// application bundles the accessors built from the loaded configuration.
type application struct {
	cfg      *config.Config
	logger   *slog.Logger
	settings *settings.Settings
	conns    *settings.ConnectionStrings

	// appKeys and connKeys list the keys of the settings file, when one is
	// loaded. The environment cannot be enumerated.
	appKeys  keyLister
	connKeys keyLister
}

// newApplication wires sources into accessors. Environment variables, when
// enabled, override values from the settings file. fallbacks maps setting
// keys to legacy environment variable names read when the prefixed variable
// is unset.
func newApplication(cfg *config.Config, logger *slog.Logger, fallbacks map[string][]string) (*application, error) {
	var (
		app                     application
		appSources, connSources []source.Source
	)

	if len(fallbacks) > 0 && cfg.Source.EnvPrefix == "" {
		return nil, errors.New("--fallback requires an environment prefix")
	}

	if cfg.Source.EnvPrefix != "" {
		envOpts := []source.EnvOption{source.WithEnvLogger(logger)}
		for key, names := range fallbacks {
			envOpts = append(envOpts, source.WithFallbacks(key, names...))
		}
		appSources = append(appSources, source.NewEnv(cfg.Source.EnvPrefix, envOpts...))
		connSources = append(connSources,
			source.NewEnv(cfg.Source.EnvPrefix+connEnvInfix, source.WithEnvLogger(logger)))
	}

	if cfg.Source.File != "" {
		appSrc, connSrc, err := fileSources(cfg.Source.File)
		if err != nil {
			return nil, err
		}
		appSources = append(appSources, appSrc)
		connSources = append(connSources, connSrc)
		app.appKeys, _ = appSrc.(keyLister)
		app.connKeys, _ = connSrc.(keyLister)
	}

	logger.Debug("settings sources configured",
		"file", cfg.Source.File,
		"env_prefix", cfg.Source.EnvPrefix)

	opts := []settings.Option{settings.WithLogger(logger)}
	app.cfg = cfg
	app.logger = logger
	app.settings = settings.New(source.Chain(appSources...), opts...)
	app.conns = settings.NewConnectionStrings(source.Chain(connSources...), opts...)
	return &app, nil
}

// parseFallbacks turns KEY=VAR[,VAR...] flag values into a fallback table.
func parseFallbacks(values []string) (map[string][]string, error) {
	fallbacks := make(map[string][]string, len(values))
	for _, value := range values {
		key, names, ok := strings.Cut(value, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.TrimSpace(names) == "" {
			return nil, fmt.Errorf("invalid --fallback %q: want KEY=VAR[,VAR...]", value)
		}
		for _, name := range strings.Split(names, ",") {
			if name = strings.TrimSpace(name); name != "" {
				fallbacks[key] = append(fallbacks[key], name)
			}
		}
	}
	return fallbacks, nil
}

// fileSources loads a settings file. YAML documents keep key case; other
// formats viper understands (json, toml, ...) are read through viper.
func fileSources(path string) (source.Source, source.Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err := source.LoadDocument(path)
		if err != nil {
			return nil, nil, err
		}
		return doc.AppSettings, doc.ConnectionStrings, nil
	default:
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
		return source.NewViper(v, "app_settings"), source.NewViper(v, "connection_strings"), nil
	}
}
