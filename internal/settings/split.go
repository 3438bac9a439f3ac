package settings

import "strings"

// DefaultDelimiter separates list entries when no WithDelimiter option is given.
const DefaultDelimiter = ";"

// EmptyEntryPolicy decides what happens to empty segments after a split.
type EmptyEntryPolicy int

const (
	// RemoveEmpty drops empty segments before conversion.
	RemoveEmpty EmptyEntryPolicy = iota
	// KeepEmpty converts empty segments like any other.
	KeepEmpty
)

// SplitOption configures SplitAndGet.
type SplitOption func(*splitConfig)

type splitConfig struct {
	delimiter string
	policy    EmptyEntryPolicy
}

// WithDelimiter sets the list delimiter. An empty delimiter keeps the default.
func WithDelimiter(delimiter string) SplitOption {
	return func(c *splitConfig) {
		if delimiter != "" {
			c.delimiter = delimiter
		}
	}
}

// WithEmptyEntries sets the policy for empty segments.
func WithEmptyEntries(policy EmptyEntryPolicy) SplitOption {
	return func(c *splitConfig) {
		c.policy = policy
	}
}

// SplitAndGet splits the setting stored under key and converts every segment
// to T, preserving order. A missing or blank setting yields an empty slice.
// The first segment that fails to convert aborts the call with its error.
func SplitAndGet[T any](s *Settings, key string, opts ...SplitOption) ([]T, error) {
	return SplitAndGetWith[T](s, key, nil, opts...)
}

// SplitAndGetWith is SplitAndGet with a custom parser for each segment.
func SplitAndGetWith[T any](s *Settings, key string, parse Parser[T], opts ...SplitOption) ([]T, error) {
	cfg := splitConfig{delimiter: DefaultDelimiter, policy: RemoveEmpty}
	for _, opt := range opts {
		opt(&cfg)
	}

	raw, ok := s.present(key)
	if !ok {
		s.logger.Debug("list setting not set, using empty list", "key", key)
		return []T{}, nil
	}

	// Segments are not trimmed: " a" converts as " a" for strings and as "a"
	// for parsed types, matching the scalar accessors.
	segments := strings.Split(raw, cfg.delimiter)
	values := make([]T, 0, len(segments))
	for _, segment := range segments {
		if segment == "" && cfg.policy == RemoveEmpty {
			continue
		}
		// No partial results: the first bad segment fails the whole list.
		v, err := convert(s, key, segment, parse)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
