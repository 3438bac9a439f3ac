package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/appconfig/internal/settings"
)

// valueType adapts one Go target type to the command line: it converts
// through the typed accessors and formats results back to text.
type valueType struct {
	get   func(s *settings.Settings, key string, required bool) (string, error)
	split func(s *settings.Settings, key string, opts ...settings.SplitOption) ([]string, error)
}

func typeOf[T any](format func(T) string) valueType {
	return valueType{
		get: func(s *settings.Settings, key string, required bool) (string, error) {
			var (
				v   T
				err error
			)
			if required {
				v, err = settings.GetRequired[T](s, key)
			} else {
				v, err = settings.Get[T](s, key)
			}
			if err != nil {
				return "", err
			}
			return format(v), nil
		},
		split: func(s *settings.Settings, key string, opts ...settings.SplitOption) ([]string, error) {
			values, err := settings.SplitAndGet[T](s, key, opts...)
			if err != nil {
				return nil, err
			}
			out := make([]string, len(values))
			for i, v := range values {
				out[i] = format(v)
			}
			return out, nil
		},
	}
}

var valueTypes = map[string]valueType{
	"string":   typeOf(func(v string) string { return v }),
	"int":      typeOf(strconv.Itoa),
	"int64":    typeOf(func(v int64) string { return strconv.FormatInt(v, 10) }),
	"uint":     typeOf(func(v uint) string { return strconv.FormatUint(uint64(v), 10) }),
	"float64":  typeOf(func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }),
	"bool":     typeOf(strconv.FormatBool),
	"duration": typeOf(time.Duration.String),
	"time":     typeOf(func(v time.Time) string { return v.Format(time.RFC3339Nano) }),
	"uuid":     typeOf(uuid.UUID.String),
}

func lookupType(name string) (valueType, error) {
	vt, ok := valueTypes[name]
	if !ok {
		return valueType{}, fmt.Errorf("unknown type %q (supported: %v)", name, typeNames())
	}
	return vt, nil
}

func typeNames() []string {
	names := make([]string, 0, len(valueTypes))
	for name := range valueTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
