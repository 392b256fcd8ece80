// Package ffmpeg builds and runs the ffmpeg invocations for the three
// per-track transcode stages. Argument lists are explicit values handed to
// process invocation; nothing is ever routed through a shell.
package ffmpeg
