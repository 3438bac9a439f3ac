// Package postgres turns named connection strings into PostgreSQL connection
// settings. It parses descriptors with pgx and never opens a connection
// itself; Open returns a lazily connecting *sql.DB.
package postgres
