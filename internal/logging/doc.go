// Package logging builds the application slog logger.
//
// Two output formats are supported: a human-oriented console handler with
// aligned fields and terminal-aware colour, and plain JSON for machine
// consumption. NewFromConfig mirrors output into the configured log
// directory. WithContext/FromContext thread the logger through the
// processing pipeline without plumbing an extra parameter everywhere.
package logging
