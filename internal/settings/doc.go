// Package settings provides typed, fail-fast access to application settings
// and named connection strings held by an external store.
//
// The package never reads files or the environment itself. Callers hand it a
// Source (see the source package for file, environment and viper backed
// implementations) and get back values converted to the type they ask for:
//
//	s := settings.New(src)
//	port, err := settings.GetRequired[int](s, "Port")
//	hosts, err := settings.SplitAndGet[string](s, "Hosts")
//
// Missing values are not errors for the plain lookups; they yield the zero
// value of the requested type. The Required variants and every conversion
// failure return a *ConfigurationError whose Kind tells the caller what went
// wrong and whose Unwrap returns the low-level cause.
//
// Conversions go through strconv and time only, so results never depend on
// the locale of the running process.
package settings
