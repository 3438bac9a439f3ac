package source

import (
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/appconfig/internal/redact"
)

// envKeyReplacer maps setting key separators onto the underscore used in
// environment variable names.
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_", ":", "_", " ", "_")

// Env reads settings from environment variables.
//
// A key is mapped to a variable name by upper-casing it, replacing ".", "-",
// ":" and spaces with "_", and prepending Prefix. "Cache.TTL" with prefix
// "APP_" reads APP_CACHE_TTL.
type Env struct {
	prefix    string
	fallbacks map[string][]string
	logger    *slog.Logger
	lookupEnv func(string) (string, bool)
}

// EnvOption configures an Env source.
type EnvOption func(*Env)

// WithFallbacks registers legacy variable names consulted, in order, when the
// primary variable for key is unset. Using one logs a deprecation warning.
func WithFallbacks(key string, names ...string) EnvOption {
	return func(e *Env) {
		e.fallbacks[key] = append(e.fallbacks[key], names...)
	}
}

// WithEnvLogger sets the logger for fallback warnings.
func WithEnvLogger(logger *slog.Logger) EnvOption {
	return func(e *Env) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEnv returns an Env source that reads variables named prefix + key.
func NewEnv(prefix string, opts ...EnvOption) *Env {
	e := &Env{
		prefix:    prefix,
		fallbacks: make(map[string][]string),
		logger:    slog.Default(),
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// VarName returns the environment variable consulted first for key.
func (e *Env) VarName(key string) string {
	return e.prefix + strings.ToUpper(envKeyReplacer.Replace(key))
}

// Lookup returns the value of the first set variable for key: the primary
// name, then any fallbacks. A variable set to "" counts as set, which lets
// an operator blank out a setting from the environment; the accessors then
// treat it as missing.
//
// Reading a fallback logs a warning naming both variables so deployments
// still on the legacy name can be found. The value is masked before it is
// logged because legacy variables commonly hold database URLs.
func (e *Env) Lookup(key string) (string, bool) {
	primary := e.VarName(key)
	if v, ok := e.lookupEnv(primary); ok {
		return v, true
	}

	for _, name := range e.fallbacks[key] {
		if v, ok := e.lookupEnv(name); ok {
			e.logger.Warn("using legacy environment variable",
				"used_var", name,
				"preferred_var", primary,
				"value", redact.String(v),
			)
			return v, true
		}
	}
	return "", false
}
