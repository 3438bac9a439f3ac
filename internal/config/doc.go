// Package config loads the settings of the settingsctl tool itself: where
// its settings document lives, which environment prefix to read and how to
// log. Values come from defaults, an optional YAML file, APPCONFIG_*
// environment variables and explicit overrides, in increasing precedence.
package config
