// Package mkvmerge wraps the mkvmerge binary: `-J` identification of
// container tracks and execution of an assembled remux argument list.
package mkvmerge
