// Package muxplan assembles the final mkvmerge argument list: per-type track
// selection from the original container, followed by one metadata block and
// file reference per transcoded artifact. The plan is a plain argument
// value; execution belongs to the mkvmerge service.
package muxplan
