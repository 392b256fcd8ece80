package downmix

// Bitrate kbps targets for the Opus encode.
const (
	bitrateStereo   = 128
	bitrateSurround = 256
	bitrateFull     = 384
	bitrateFallback = 192
)

// Bitrate resolves the target bitrate in kbps for one track.
//
// The policy keys on whether a downmix was requested, not on whether the
// planner actually changed the layout: a 4-channel track under a downmix
// request still encodes at the stereo target even though Plan leaves it
// unmixed. Matches the established bitrate-selection behaviour.
func Bitrate(channelCount int, downmixRequested bool) int {
	if downmixRequested {
		return bitrateStereo
	}
	switch channelCount {
	case 2:
		return bitrateStereo
	case 6:
		return bitrateSurround
	case 8:
		return bitrateFull
	default:
		return bitrateFallback
	}
}
