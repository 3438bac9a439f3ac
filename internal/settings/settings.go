package settings

import (
	"log/slog"
	"strings"
)

// Option configures a Settings or ConnectionStrings accessor.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for debug records about defaulted and
// failed lookups. A nil logger keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Settings resolves application settings from a flat Source.
// A Settings holds no mutable state and is safe for concurrent use.
type Settings struct {
	src    Source
	logger *slog.Logger
}

// New returns a Settings reading from src. A nil src behaves as an empty store.
func New(src Source, opts ...Option) *Settings {
	o := buildOptions(opts)
	return &Settings{
		src:    orEmpty(src),
		logger: o.logger.With("component", "settings"),
	}
}

// Lookup returns the raw value stored under key and whether the key exists.
func (s *Settings) Lookup(key string) (string, bool) {
	return s.src.Lookup(key)
}

// Get returns the raw string stored under key, or "" when it is missing.
func (s *Settings) Get(key string) string {
	v, _ := Get[string](s, key)
	return v
}

// GetRequired returns the raw string stored under key, or a
// KindMissingSetting error when it is absent, empty or blank.
func (s *Settings) GetRequired(key string) (string, error) {
	return GetRequired[string](s, key)
}

// Get returns the setting stored under key converted to T. Missing, empty and
// blank values yield the zero value of T and no error.
func Get[T any](s *Settings, key string) (T, error) {
	return GetWith[T](s, key, nil)
}

// GetWith is Get with a custom parser. A nil parse uses the built-in conversions.
func GetWith[T any](s *Settings, key string, parse Parser[T]) (T, error) {
	raw, ok := s.present(key)
	if !ok {
		var zero T
		s.logger.Debug("setting not set, using zero value", "key", key)
		return zero, nil
	}
	return convert(s, key, raw, parse)
}

// GetRequired returns the setting stored under key converted to T. Missing,
// empty and blank values fail with KindMissingSetting.
func GetRequired[T any](s *Settings, key string) (T, error) {
	return GetRequiredWith[T](s, key, nil)
}

// GetRequiredWith is GetRequired with a custom parser.
func GetRequiredWith[T any](s *Settings, key string, parse Parser[T]) (T, error) {
	raw, ok := s.present(key)
	if !ok {
		var zero T
		s.logger.Debug("required setting not set", "key", key)
		return zero, missingSetting(key)
	}
	return convert(s, key, raw, parse)
}

// present returns the raw value when it exists and is not blank.
// Absent, empty and whitespace-only values are all reported as not present,
// so every accessor agrees on what "missing" means regardless of how the
// underlying store represents an unset key.
func (s *Settings) present(key string) (string, bool) {
	raw, ok := s.src.Lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return "", false
	}
	return raw, true
}

// convert runs the conversion for an accessor and records failures at
// debug level. The error itself is returned unchanged for the caller to act on.
func convert[T any](s *Settings, key, raw string, parse Parser[T]) (T, error) {
	v, err := convertWith(key, raw, parse)
	if err != nil {
		s.logger.Debug("setting conversion failed", "key", key, "error", err)
	}
	return v, err
}
