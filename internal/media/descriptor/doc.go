// Package descriptor merges the three container probes (ffprobe, mkvmerge
// identify, mediainfo) into one typed track listing.
//
// Each probe contributes what it is authoritative for: ffprobe supplies
// stream indexes, codecs and channel counts; mkvmerge supplies container
// track IDs, types and titles; mediainfo supplies per-audio A/V sync delays.
// The merge validates that the probes describe the same container and fails
// with ErrMismatch when they cannot be correlated by position.
package descriptor
