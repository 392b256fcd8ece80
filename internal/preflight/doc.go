// Package preflight provides readiness checks for the external tools and
// filesystem paths trackmix depends on. A processing run executes them
// before touching the input so a missing tool fails in milliseconds instead
// of mid-pipeline.
package preflight
