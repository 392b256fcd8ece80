// Command trackmix is the CLI entry point. Subcommands cover the whole
// workflow: process runs a transcode, inspect shows the merged track
// listing, history lists past runs, preflight checks the environment and
// config manages the TOML configuration file.
package main
