package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/appconfig/internal/settings"
)

// connConfigType names the conversion target in error messages.
const connConfigType = "pgx.ConnConfig"

// Config resolves the required connection string name and parses it as a
// PostgreSQL descriptor, in URL or keyword/value form.
// A missing name fails with settings.KindMissingConnectionString; an
// unparseable descriptor fails with settings.KindBadFormat wrapping the pgx error.
func Config(cs *settings.ConnectionStrings, name string) (*pgx.ConnConfig, error) {
	raw, err := cs.GetRequired(name)
	if err != nil {
		return nil, err
	}

	cfg, err := pgx.ParseConfig(raw)
	if err != nil {
		return nil, &settings.ConfigurationError{
			Kind: settings.KindBadFormat,
			Key:  name,
			Type: connConfigType,
			Err:  err,
		}
	}
	return cfg, nil
}

// Open resolves name and returns a *sql.DB backed by the pgx driver.
// No connection is made until the pool is first used.
func Open(cs *settings.ConnectionStrings, name string) (*sql.DB, error) {
	cfg, err := Config(cs, name)
	if err != nil {
		return nil, err
	}
	return stdlib.OpenDB(*cfg), nil
}

// Ping opens name and verifies the server answers before ctx is done.
// Resolution and parse failures are returned as they come from Config; a
// failed round trip is wrapped with the connection name.
func Ping(ctx context.Context, cs *settings.ConnectionStrings, name string) error {
	db, err := Open(cs, name)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach connection %q: %w", name, err)
	}
	return nil
}

// Describe returns a credential-free summary of cfg for logs and CLI output.
func Describe(cfg *pgx.ConnConfig) string {
	return fmt.Sprintf("host=%s port=%d database=%s user=%s", cfg.Host, cfg.Port, cfg.Database, cfg.User)
}
