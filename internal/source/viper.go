package source

import (
	"sort"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ListSeparator joins list values from structured stores into one raw string,
// matching the default delimiter of settings.SplitAndGet.
const ListSeparator = ";"

// Viper reads settings from a viper instance, optionally below a sub-tree.
// Viper folds keys to lower case, so lookups through this source are
// case-insensitive.
type Viper struct {
	v      *viper.Viper
	prefix string
}

// NewViper returns a source reading keys below prefix (for example
// "app_settings"). An empty prefix reads top-level keys.
func NewViper(v *viper.Viper, prefix string) *Viper {
	return &Viper{v: v, prefix: strings.Trim(prefix, ".")}
}

func (s *Viper) path(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "." + key
}

// Lookup returns the scalar stored under key. Lists are joined with
// ListSeparator; nested maps are reported as absent because the settings
// store is flat.
func (s *Viper) Lookup(key string) (string, bool) {
	path := s.path(key)
	if !s.v.IsSet(path) {
		return "", false
	}

	// Viper hands back values already decoded by its file codecs (JSON
	// numbers are float64, TOML integers int64, and so on). cast renders them
	// back to the plain text the settings converters parse.
	switch raw := s.v.Get(path).(type) {
	case nil:
		// An explicit null is present but empty, which reads as missing.
		return "", true
	case map[string]any:
		return "", false
	case []any, []string:
		items, err := cast.ToStringSliceE(raw)
		if err != nil {
			return "", false
		}
		return strings.Join(items, ListSeparator), true
	default:
		// Values cast cannot render (structs set through viper.Set) are
		// treated as absent rather than surfacing as a malformed string.
		v, err := cast.ToStringE(raw)
		if err != nil {
			return "", false
		}
		return v, true
	}
}

// Keys lists the keys below the source's prefix in sorted order. Keys are
// lower case, as viper stores them; nested maps appear as dotted paths.
func (s *Viper) Keys() []string {
	v := s.v
	if s.prefix != "" {
		// Sub returns nil when the prefix is absent or not a map.
		if v = s.v.Sub(s.prefix); v == nil {
			return nil
		}
	}
	keys := v.AllKeys()
	sort.Strings(keys)
	return keys
}
