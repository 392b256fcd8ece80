package descriptor

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"

	"trackmix/internal/media/ffprobe"
	"trackmix/internal/services/mediainfo"
	"trackmix/internal/services/mkvmerge"
)

// ErrMismatch reports that the probes disagree on track identity or count.
// Correlation failures are data-integrity errors; trackmix never guesses.
var ErrMismatch = errors.New("probe outputs do not describe the same tracks")

// TrackType identifies the kind of stream a track carries.
type TrackType string

const (
	TrackVideo    TrackType = "video"
	TrackAudio    TrackType = "audio"
	TrackSubtitle TrackType = "subtitle"
)

// TrackInfo is the merged, immutable view of one container track.
type TrackInfo struct {
	// StreamIndex is the 0-based demux stream position, used when
	// extracting a stream with ffmpeg.
	StreamIndex int
	// TrackID is the container-native identifier, used when selecting
	// tracks in the mkvmerge output.
	TrackID int64
	Type    TrackType
	// Codec is the lowercase ffprobe codec name.
	Codec string
	// ChannelCount is set for audio tracks only.
	ChannelCount int
	// Language is an ISO language tag, "und" when absent or unparseable.
	Language string
	// Title is the container track name, empty when unset.
	Title string
	// DelayMs is the A/V sync delay in milliseconds, 0 when not detected.
	DelayMs int
}

// Media is the full merged description of one container.
type Media struct {
	// Tracks holds video, audio and subtitle tracks in container order.
	Tracks []TrackInfo
	// AttachmentIDs holds attachment IDs in container order; attachments
	// carry no stream-level metadata trackmix needs beyond their IDs.
	AttachmentIDs []int64
}

// Merge correlates the three probe outputs into one Media description.
//
// ffprobe streams (minus attachment pseudo-streams) and mkvmerge tracks must
// agree positionally on count and type, and every mediainfo audio entry must
// name an audio stream ffprobe knows about. An audio stream with no mediainfo
// entry, or an entry without a delay value, merges as delay 0.
func Merge(probe ffprobe.Result, container mkvmerge.Container, delays mediainfo.Report) (Media, error) {
	streams := make([]ffprobe.Stream, 0, len(probe.Streams))
	for _, stream := range probe.Streams {
		if strings.EqualFold(stream.CodecType, "attachment") {
			continue
		}
		streams = append(streams, stream)
	}

	if len(streams) != len(container.Tracks) {
		return Media{}, fmt.Errorf("%w: ffprobe reports %d streams, mkvmerge reports %d tracks",
			ErrMismatch, len(streams), len(container.Tracks))
	}
	if err := correlateDelays(streams, delays); err != nil {
		return Media{}, err
	}

	media := Media{
		Tracks:        make([]TrackInfo, 0, len(streams)),
		AttachmentIDs: container.AttachmentIDs(),
	}
	for i, stream := range streams {
		track := container.Tracks[i]
		trackType, err := correlateType(stream.CodecType, track.Type)
		if err != nil {
			return Media{}, fmt.Errorf("%w: stream %d: %v", ErrMismatch, stream.Index, err)
		}

		info := TrackInfo{
			StreamIndex: stream.Index,
			TrackID:     track.ID,
			Type:        trackType,
			Codec:       strings.ToLower(strings.TrimSpace(stream.CodecName)),
			Language:    NormalizeLanguage(firstNonEmpty(stream.Language(), track.Properties.Language)),
			Title:       strings.TrimSpace(track.Properties.TrackName),
		}
		if trackType == TrackAudio {
			info.ChannelCount = stream.Channels
			if delay, ok := delays.DelayFor(stream.Index); ok && delay.HasDelay {
				info.DelayMs = roundDelayMs(delay.DelaySeconds)
			}
		}
		media.Tracks = append(media.Tracks, info)
	}
	return media, nil
}

// AudioTracks returns the audio tracks in encounter order.
func (m Media) AudioTracks() []TrackInfo {
	var audio []TrackInfo
	for _, track := range m.Tracks {
		if track.Type == TrackAudio {
			audio = append(audio, track)
		}
	}
	return audio
}

// TrackIDs returns the IDs of all tracks of the given type, in container order.
func (m Media) TrackIDs(trackType TrackType) []int64 {
	var ids []int64
	for _, track := range m.Tracks {
		if track.Type == trackType {
			ids = append(ids, track.TrackID)
		}
	}
	return ids
}

// NormalizeLanguage lowercases and validates a language tag, returning "und"
// for anything empty or unparseable. Valid tags are preserved as given
// (mkvmerge accepts both ISO 639-1 and 639-2 forms).
func NormalizeLanguage(tag string) string {
	cleaned := strings.ToLower(strings.TrimSpace(tag))
	if cleaned == "" || cleaned == "und" {
		return "und"
	}
	if _, err := language.Parse(cleaned); err != nil {
		return "und"
	}
	return cleaned
}

// roundDelayMs converts seconds to the nearest millisecond, rounding half
// away from zero.
func roundDelayMs(seconds float64) int {
	return int(math.Round(seconds * 1000))
}

// correlateDelays checks every mediainfo audio entry against the ffprobe
// audio stream indexes. An entry naming an unknown stream, or naming the
// same stream twice, means the probes do not describe the same container.
func correlateDelays(streams []ffprobe.Stream, delays mediainfo.Report) error {
	audioIndexes := make(map[int]struct{})
	for _, stream := range streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			audioIndexes[stream.Index] = struct{}{}
		}
	}

	seen := make(map[int]struct{}, len(delays.AudioDelays))
	for _, delay := range delays.AudioDelays {
		if _, ok := audioIndexes[delay.StreamOrder]; !ok {
			return fmt.Errorf("%w: mediainfo reports an audio track at stream order %d, which matches no audio stream",
				ErrMismatch, delay.StreamOrder)
		}
		if _, ok := seen[delay.StreamOrder]; ok {
			return fmt.Errorf("%w: mediainfo reports stream order %d more than once", ErrMismatch, delay.StreamOrder)
		}
		seen[delay.StreamOrder] = struct{}{}
	}
	return nil
}

func correlateType(ffprobeType, mkvmergeType string) (TrackType, error) {
	ff := strings.ToLower(strings.TrimSpace(ffprobeType))
	mkv := strings.ToLower(strings.TrimSpace(mkvmergeType))
	switch {
	case ff == "video" && mkv == "video":
		return TrackVideo, nil
	case ff == "audio" && mkv == "audio":
		return TrackAudio, nil
	case ff == "subtitle" && mkv == "subtitles":
		return TrackSubtitle, nil
	}
	return "", fmt.Errorf("ffprobe type %q does not match mkvmerge type %q", ffprobeType, mkvmergeType)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
