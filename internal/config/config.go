package config

// Config holds all settingsctl configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log" validate:"required"`
	Source SourceConfig `mapstructure:"source" validate:"required"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// SourceConfig describes where settings and connection strings are read from.
type SourceConfig struct {
	// File is an optional YAML settings document with app_settings and
	// connection_strings sections.
	File string `mapstructure:"file" validate:"omitempty,max=4096"`
	// EnvPrefix selects environment variables that override the document.
	// Empty disables the environment source.
	EnvPrefix string `mapstructure:"env_prefix" validate:"omitempty,max=64,printascii"`
}
