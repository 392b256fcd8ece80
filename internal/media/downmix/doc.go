// Package downmix plans channel-layout reduction and target bitrates for
// transcoded audio tracks.
//
// Requested downmixes of 5.1 and 7.1 sources use a dialogue-boost formula:
// the center channel passes at full gain while front and surround pairs are
// folded in at 0.30. Irregular layouts of six or more channels fall back to
// a uniform stereo fold. Anything below six channels keeps its layout.
package downmix
