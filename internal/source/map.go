package source

import (
	"sort"

	"github.com/phrazzld/appconfig/internal/settings"
)

// Source is the lookup contract the settings accessors consume. It is an
// alias, so every source built here is a settings.Source with no conversion.
type Source = settings.Source

// Map is a case-sensitive in-memory store.
type Map map[string]string

// FromMap copies m into a new Map so later changes to m are not observed.
func FromMap(m map[string]string) Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Lookup returns the value stored under key.
func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Keys returns the stored keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Chain consults sources in order and returns the first hit, so earlier
// sources override later ones. Nil sources are skipped.
func Chain(sources ...Source) Source {
	kept := make([]Source, 0, len(sources))
	for _, s := range sources {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return chain(kept)
}

type chain []Source

func (c chain) Lookup(key string) (string, bool) {
	for _, s := range c {
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}
