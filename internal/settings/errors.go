package settings

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a ConfigurationError.
type Kind int

const (
	// KindMissingSetting means a required setting was absent, empty or blank.
	KindMissingSetting Kind = iota + 1

	// KindMissingConnectionString means a required connection string was
	// absent, empty or blank.
	KindMissingConnectionString

	// KindInvalidCast means no conversion exists from a string to the target type.
	KindInvalidCast

	// KindBadFormat means the raw text does not match the target type's format.
	KindBadFormat

	// KindOverflow means the value is well formed but outside the target type's range.
	KindOverflow
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindMissingSetting:
		return "missing setting"
	case KindMissingConnectionString:
		return "missing connection string"
	case KindInvalidCast:
		return "invalid cast"
	case KindBadFormat:
		return "bad format"
	case KindOverflow:
		return "overflow"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinel errors, one per Kind. A *ConfigurationError matches the sentinel
// of its kind with errors.Is.
var (
	ErrMissingSetting          = errors.New("missing setting")
	ErrMissingConnectionString = errors.New("missing connection string")
	ErrInvalidCast             = errors.New("invalid cast")
	ErrBadFormat               = errors.New("bad format")
	ErrOverflow                = errors.New("overflow")

	// ErrNoConversion is the cause carried by KindInvalidCast errors when the
	// target type has no string conversion.
	ErrNoConversion = errors.New("no conversion from string")
)

var kindSentinels = map[Kind]error{
	KindMissingSetting:          ErrMissingSetting,
	KindMissingConnectionString: ErrMissingConnectionString,
	KindInvalidCast:             ErrInvalidCast,
	KindBadFormat:               ErrBadFormat,
	KindOverflow:                ErrOverflow,
}

// ConfigurationError is the single error type returned by this package.
type ConfigurationError struct {
	Kind Kind   // Category of the failure
	Key  string // Setting key or connection string name
	Type string // Target type name; empty for the missing kinds
	Err  error  // Underlying cause, if any
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	switch e.Kind {
	case KindMissingSetting:
		return fmt.Sprintf("setting %q is required but was not found or is empty", e.Key)
	case KindMissingConnectionString:
		return fmt.Sprintf("connection string %q is required but was not found or is empty", e.Key)
	}

	msg := fmt.Sprintf("setting %q cannot be converted to %s: %s", e.Key, e.Type, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *ConfigurationError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// KindOf returns the Kind of the first ConfigurationError in err's chain.
func KindOf(err error) (Kind, bool) {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.Kind, true
	}
	return 0, false
}

// IsMissing reports whether err is a missing setting or missing connection string error.
func IsMissing(err error) bool {
	return errors.Is(err, ErrMissingSetting) || errors.Is(err, ErrMissingConnectionString)
}

// IsConversionError reports whether err is any of the three conversion kinds.
func IsConversionError(err error) bool {
	return errors.Is(err, ErrInvalidCast) ||
		errors.Is(err, ErrBadFormat) ||
		errors.Is(err, ErrOverflow)
}

func missingSetting(key string) error {
	return &ConfigurationError{Kind: KindMissingSetting, Key: key}
}

func missingConnectionString(name string) error {
	return &ConfigurationError{Kind: KindMissingConnectionString, Key: name}
}
