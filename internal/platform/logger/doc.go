// Package logger configures structured logging with log/slog and carries
// loggers through a context.Context.
package logger
