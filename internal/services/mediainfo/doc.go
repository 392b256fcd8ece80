// Package mediainfo extracts per-audio-stream A/V sync delays from
// `mediainfo --Output=JSON`. Only the delay data is consumed here; codec and
// metadata probing is handled by ffprobe and mkvmerge.
package mediainfo
