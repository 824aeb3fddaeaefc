// Package history records evaluated operations in a SQLite database so the
// interactive loop and the history command can show past results.
package history
