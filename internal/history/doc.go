// Package history records completed and failed processing runs in a small
// SQLite database, surfaced by `trackmix history`.
package history
