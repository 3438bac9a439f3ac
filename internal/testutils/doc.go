// Package testutils holds helpers shared by package tests, currently an
// in-memory slog handler for asserting on emitted log records.
package testutils
