package settings

// Source is the read-only key to string lookup the accessors consume.
// Implementations must be safe for concurrent reads.
type Source interface {
	Lookup(key string) (string, bool)
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func(key string) (string, bool)

// Lookup calls f(key).
func (f SourceFunc) Lookup(key string) (string, bool) {
	return f(key)
}

// emptySource stands in for a nil Source.
type emptySource struct{}

func (emptySource) Lookup(string) (string, bool) { return "", false }

func orEmpty(src Source) Source {
	if src == nil {
		return emptySource{}
	}
	return src
}
