package classify

import (
	"strings"

	"trackmix/internal/media/descriptor"
)

// Verdict is the per-audio-track processing decision.
type Verdict string

const (
	// Remux copies the track into the output unchanged.
	Remux Verdict = "remux"
	// Transcode runs the track through the extract/normalize/encode chain.
	Transcode Verdict = "transcode"
	// FallbackRemux copies an unrecognized codec through unchanged.
	FallbackRemux Verdict = "fallback-remux"
)

// Decision pairs an audio track with its verdict. Reason is set for
// FallbackRemux only.
type Decision struct {
	Track   descriptor.TrackInfo
	Verdict Verdict
	Reason  string
}

// codecVerdicts is the single source of truth for the remux/transcode
// boundary. Lookup is exact-match on the lowercase ffprobe codec name.
var codecVerdicts = map[string]Verdict{
	"aac":  Remux,
	"opus": Remux,
	"dts":  Transcode,
	"ac3":  Transcode,
	"eac3": Transcode,
	"flac": Transcode,
}

// Classify returns the decision for a single audio track.
func Classify(track descriptor.TrackInfo) Decision {
	codec := strings.ToLower(strings.TrimSpace(track.Codec))
	if verdict, ok := codecVerdicts[codec]; ok {
		return Decision{Track: track, Verdict: verdict}
	}
	return Decision{Track: track, Verdict: FallbackRemux, Reason: "unsupported codec"}
}

// ClassifyAll returns one decision per audio track, in encounter order.
// Every audio track yields a decision; nothing is silently dropped.
func ClassifyAll(tracks []descriptor.TrackInfo) []Decision {
	decisions := make([]Decision, 0, len(tracks))
	for _, track := range tracks {
		decisions = append(decisions, Classify(track))
	}
	return decisions
}

// RemuxIDs returns the track IDs kept from the original container (Remux and
// FallbackRemux decisions), in encounter order.
func RemuxIDs(decisions []Decision) []int64 {
	var ids []int64
	for _, decision := range decisions {
		if decision.Verdict == Remux || decision.Verdict == FallbackRemux {
			ids = append(ids, decision.Track.TrackID)
		}
	}
	return ids
}

// TranscodeTracks returns the tracks bound for the transcode pipeline, in
// encounter order.
func TranscodeTracks(decisions []Decision) []descriptor.TrackInfo {
	var tracks []descriptor.TrackInfo
	for _, decision := range decisions {
		if decision.Verdict == Transcode {
			tracks = append(tracks, decision.Track)
		}
	}
	return tracks
}

// Fallbacks returns the fallback decisions so callers can surface warnings.
func Fallbacks(decisions []Decision) []Decision {
	var fallbacks []Decision
	for _, decision := range decisions {
		if decision.Verdict == FallbackRemux {
			fallbacks = append(fallbacks, decision)
		}
	}
	return fallbacks
}
