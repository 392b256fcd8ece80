// Package classify decides, per audio track, whether to pass the track
// through unchanged or send it to the transcode pipeline.
//
// The decision is a static codec table: AAC and Opus are already efficient
// lossy codecs and are remuxed as-is; DTS, AC-3, E-AC-3 and FLAC are
// transcoded to Opus. Anything else falls back to a remux with a warning
// rather than failing the run. Non-audio tracks are never classified; they
// are always carried over grouped by type.
package classify
