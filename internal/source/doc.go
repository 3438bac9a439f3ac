// Package source provides the backing stores the settings accessors read
// from: in-memory maps, environment variables, viper instances and YAML
// settings documents. Every source is read-only once built and safe for
// concurrent lookups.
package source
