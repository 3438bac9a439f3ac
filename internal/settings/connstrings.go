package settings

import (
	"log/slog"
	"strings"

	"github.com/phrazzld/appconfig/internal/redact"
)

// ConnectionStrings resolves named connection strings from their own Source,
// kept apart from the flat settings store. Values are never converted.
type ConnectionStrings struct {
	src    Source
	logger *slog.Logger
}

// NewConnectionStrings returns a ConnectionStrings reading from src.
// A nil src behaves as an empty store.
func NewConnectionStrings(src Source, opts ...Option) *ConnectionStrings {
	o := buildOptions(opts)
	return &ConnectionStrings{
		src:    orEmpty(src),
		logger: o.logger.With("component", "connection_strings"),
	}
}

// Get returns the connection string registered under name and whether it exists.
func (c *ConnectionStrings) Get(name string) (string, bool) {
	return c.src.Lookup(name)
}

// GetRequired returns the connection string registered under name unchanged.
// Absent, empty and blank values fail with KindMissingConnectionString.
func (c *ConnectionStrings) GetRequired(name string) (string, error) {
	cs, ok := c.Get(name)
	if !ok || strings.TrimSpace(cs) == "" {
		c.logger.Debug("required connection string not set", "name", name)
		return "", missingConnectionString(name)
	}

	c.logger.Debug("connection string resolved",
		"name", name,
		"value", redact.ConnectionString(cs))
	return cs, nil
}
