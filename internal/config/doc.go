// Package config loads, validates and normalizes trackmix configuration.
//
// Configuration is a TOML file resolved from (in order) an explicit --config
// flag, ~/.config/trackmix/config.toml, or trackmix.toml in the working
// directory. Missing files are not an error; defaults apply. All path values
// support a leading tilde.
package config
