package settings

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parser converts a raw setting value into a T. Parsers plug custom types
// into GetWith, GetRequiredWith and SplitAndGetWith. Returned errors are
// classified like built-in conversions: strconv.ErrRange in the chain is an
// overflow, ErrNoConversion is an invalid cast, anything else is bad format.
type Parser[T any] func(raw string) (T, error)

var (
	durationType        = reflect.TypeFor[time.Duration]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Convert converts raw into a T on behalf of the setting named key.
//
// Strings are returned unchanged. Booleans, integers, floats, time.Duration,
// []byte, named types built on those, pointers to any supported type, and
// types whose pointer implements encoding.TextUnmarshaler are parsed with
// fixed, locale-independent rules. Surrounding whitespace is ignored for
// every target other than string and []byte.
func Convert[T any](key, raw string) (T, error) {
	return convertWith[T](key, raw, nil)
}

// ConvertWith converts raw with parse. A nil parse falls back to Convert.
func ConvertWith[T any](key, raw string, parse Parser[T]) (T, error) {
	return convertWith(key, raw, parse)
}

func convertWith[T any](key, raw string, parse Parser[T]) (T, error) {
	var zero T
	target := reflect.TypeFor[T]()

	// A custom parser sees the raw text untrimmed; its errors go through the
	// same classification as the built-in conversions.
	if parse != nil {
		v, err := parse(raw)
		if err != nil {
			return zero, classify(key, target, err)
		}
		return v, nil
	}

	// Plain strings skip reflection entirely and keep surrounding whitespace.
	if s, ok := any(&zero).(*string); ok {
		*s = raw
		return zero, nil
	}

	v, err := convertValue(target, raw)
	if err != nil {
		return zero, classify(key, target, err)
	}
	return v.Interface().(T), nil
}

// convertValue returns a reflect.Value of exactly type t parsed from raw.
//
// Named types resolve through their underlying kind, so a `type Port uint16`
// is parsed with the uint16 rules and range. time.Duration and text
// unmarshalers are checked before the kind switch because their kinds (int64
// and struct or array) would otherwise pick the wrong parser. Pointer targets
// recurse on their element type and allocate the result.
func convertValue(t reflect.Type, raw string) (reflect.Value, error) {
	if t.Kind() == reflect.Interface {
		return reflect.Value{}, ErrNoConversion
	}

	trimmed := strings.TrimSpace(raw)

	if t == durationType {
		d, err := parseDuration(trimmed)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	}

	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(textUnmarshalerType) {
		ptr := reflect.New(t)
		u := ptr.Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(trimmed)); err != nil {
			return reflect.Value{}, err
		}
		return ptr.Elem(), nil
	}

	v := reflect.New(t).Elem()

	switch t.Kind() {
	case reflect.String:
		// Named string types keep the raw text, whitespace included.
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// t.Bits makes strconv enforce the target width and report
		// ErrRange, which classify turns into an overflow.
		n, err := strconv.ParseInt(trimmed, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := parseUint(trimmed, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(trimmed, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetFloat(f)
	case reflect.Slice:
		// Only []byte is a scalar; other slices belong to SplitAndGet.
		if t.Elem().Kind() != reflect.Uint8 {
			return reflect.Value{}, ErrNoConversion
		}
		v.SetBytes([]byte(raw))
	case reflect.Pointer:
		elem, err := convertValue(t.Elem(), raw)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	default:
		return reflect.Value{}, ErrNoConversion
	}

	return v, nil
}

// parseUint parses an unsigned integer of the given width. An explicit '+'
// sign is accepted like it is for signed targets. A well-formed negative
// integer is outside the range of every unsigned type, so it is reported as
// strconv.ErrRange rather than the syntax error ParseUint returns for it.
func parseUint(s string, bits int) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, bits)
	if err == nil || !errors.Is(err, strconv.ErrSyntax) || !strings.HasPrefix(s, "-") {
		return n, err
	}

	i, ierr := strconv.ParseInt(s, 10, 64)
	switch {
	case ierr == nil && i == 0:
		return 0, nil
	case ierr == nil || errors.Is(ierr, strconv.ErrRange):
		return 0, &strconv.NumError{Func: "ParseUint", Num: s, Err: strconv.ErrRange}
	default:
		return 0, err
	}
}

// durationSyntax matches the text time.ParseDuration accepts: an optional
// sign followed by one or more decimal numbers, each with a unit suffix.
var durationSyntax = regexp.MustCompile(`^[-+]?((\d+(\.\d*)?|\.\d+)(ns|us|µs|μs|ms|s|m|h))+$`)

// parseDuration wraps time.ParseDuration. ParseDuration returns the same
// unclassified error for malformed text and for values beyond the range of
// time.Duration; well-formed text that still fails is the latter, so
// strconv.ErrRange is added to the chain next to the original error.
func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil && durationSyntax.MatchString(s) {
		return 0, fmt.Errorf("%w (%w)", err, strconv.ErrRange)
	}
	return d, err
}

// classify wraps a low-level conversion failure in a ConfigurationError.
//
// The kind follows the cause: ErrNoConversion means the target type is not
// supported at all, strconv.ErrRange means the text was a valid number that
// does not fit the target, and everything else is malformed text. Errors
// already classified by a custom parser are passed through untouched.
func classify(key string, target reflect.Type, err error) error {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return err
	}

	kind := KindBadFormat
	switch {
	case errors.Is(err, ErrNoConversion):
		kind = KindInvalidCast
	case errors.Is(err, strconv.ErrRange):
		kind = KindOverflow
	}

	return &ConfigurationError{
		Kind: kind,
		Key:  key,
		Type: target.String(),
		Err:  err,
	}
}
