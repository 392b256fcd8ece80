package descriptor

import (
	"errors"
	"testing"

	"trackmix/internal/media/ffprobe"
	"trackmix/internal/services/mediainfo"
	"trackmix/internal/services/mkvmerge"
)

func sampleProbe(t *testing.T) ffprobe.Result {
	t.Helper()
	result, err := ffprobe.Parse([]byte(`{
	  "streams": [
	    {"index": 0, "codec_name": "h264", "codec_type": "video"},
	    {"index": 1, "codec_name": "DTS", "codec_type": "audio", "channels": 6, "tags": {"language": "eng"}},
	    {"index": 2, "codec_name": "aac", "codec_type": "audio", "channels": 2, "tags": {"language": "jpn"}},
	    {"index": 3, "codec_name": "subrip", "codec_type": "subtitle"},
	    {"index": 4, "codec_name": "ttf", "codec_type": "attachment"}
	  ]
	}`))
	if err != nil {
		t.Fatalf("parse ffprobe sample: %v", err)
	}
	return result
}

func sampleContainer(t *testing.T) mkvmerge.Container {
	t.Helper()
	container, err := mkvmerge.ParseIdentify([]byte(`{
	  "tracks": [
	    {"id": 0, "type": "video", "properties": {}},
	    {"id": 1, "type": "audio", "properties": {"track_name": "Surround 5.1", "language": "eng"}},
	    {"id": 2, "type": "audio", "properties": {"language": "jpn"}},
	    {"id": 3, "type": "subtitles", "properties": {"language": "eng"}}
	  ],
	  "attachments": [{"id": 1, "file_name": "font.ttf"}]
	}`))
	if err != nil {
		t.Fatalf("parse mkvmerge sample: %v", err)
	}
	return container
}

func sampleDelays(t *testing.T) mediainfo.Report {
	t.Helper()
	report, err := mediainfo.Parse([]byte(`{
	  "media": {"track": [
	    {"@type": "Audio", "StreamOrder": "1", "Video_Delay": "0.0337"},
	    {"@type": "Audio", "StreamOrder": "2"}
	  ]}
	}`))
	if err != nil {
		t.Fatalf("parse mediainfo sample: %v", err)
	}
	return report
}

func TestMerge(t *testing.T) {
	media, err := Merge(sampleProbe(t), sampleContainer(t), sampleDelays(t))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(media.Tracks) != 4 {
		t.Fatalf("tracks = %d, want 4", len(media.Tracks))
	}

	dts := media.Tracks[1]
	if dts.Type != TrackAudio || dts.Codec != "dts" || dts.ChannelCount != 6 {
		t.Fatalf("unexpected dts track: %+v", dts)
	}
	if dts.TrackID != 1 || dts.StreamIndex != 1 {
		t.Fatalf("dts identity: %+v", dts)
	}
	if dts.Title != "Surround 5.1" || dts.Language != "eng" {
		t.Fatalf("dts metadata: %+v", dts)
	}
	// 0.0337s rounds to 34ms.
	if dts.DelayMs != 34 {
		t.Fatalf("delay = %d, want 34", dts.DelayMs)
	}

	aac := media.Tracks[2]
	if aac.DelayMs != 0 {
		t.Fatalf("absent delay should merge as 0, got %d", aac.DelayMs)
	}
	if aac.Language != "jpn" {
		t.Fatalf("aac language = %q", aac.Language)
	}

	if len(media.AttachmentIDs) != 1 || media.AttachmentIDs[0] != 1 {
		t.Fatalf("attachment ids = %v", media.AttachmentIDs)
	}

	audio := media.AudioTracks()
	if len(audio) != 2 || audio[0].StreamIndex != 1 || audio[1].StreamIndex != 2 {
		t.Fatalf("audio encounter order broken: %+v", audio)
	}
	if ids := media.TrackIDs(TrackSubtitle); len(ids) != 1 || ids[0] != 3 {
		t.Fatalf("subtitle ids = %v", ids)
	}
}

func TestMergeCountMismatch(t *testing.T) {
	container := sampleContainer(t)
	container.Tracks = container.Tracks[:2]
	_, err := Merge(sampleProbe(t), container, sampleDelays(t))
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
}

func TestMergeTypeMismatch(t *testing.T) {
	container := sampleContainer(t)
	container.Tracks[1].Type = "subtitles"
	_, err := Merge(sampleProbe(t), container, sampleDelays(t))
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
}

func TestMergeUncorrelatedDelay(t *testing.T) {
	report, err := mediainfo.Parse([]byte(`{
	  "media": {"track": [
	    {"@type": "Audio", "StreamOrder": "1", "Video_Delay": "0.5"},
	    {"@type": "Audio", "StreamOrder": "9", "Video_Delay": "0.5"}
	  ]}
	}`))
	if err != nil {
		t.Fatalf("parse mediainfo: %v", err)
	}
	_, err = Merge(sampleProbe(t), sampleContainer(t), report)
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch for unknown stream order, got %v", err)
	}
}

func TestMergeDelayAtNonAudioStream(t *testing.T) {
	report, err := mediainfo.Parse([]byte(`{
	  "media": {"track": [
	    {"@type": "Audio", "StreamOrder": "0", "Video_Delay": "0.1"}
	  ]}
	}`))
	if err != nil {
		t.Fatalf("parse mediainfo: %v", err)
	}
	// Stream 0 exists but is video.
	_, err = Merge(sampleProbe(t), sampleContainer(t), report)
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch for non-audio stream order, got %v", err)
	}
}

func TestMergeDuplicateDelayOrder(t *testing.T) {
	report, err := mediainfo.Parse([]byte(`{
	  "media": {"track": [
	    {"@type": "Audio", "StreamOrder": "1", "Video_Delay": "0.1"},
	    {"@type": "Audio", "StreamOrder": "1", "Video_Delay": "0.2"}
	  ]}
	}`))
	if err != nil {
		t.Fatalf("parse mediainfo: %v", err)
	}
	_, err = Merge(sampleProbe(t), sampleContainer(t), report)
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch for duplicated stream order, got %v", err)
	}
}

func TestRoundDelayMs(t *testing.T) {
	cases := []struct {
		seconds float64
		want    int
	}{
		{0.0337, 34},
		{-0.001, -1},
		{0, 0},
		{0.0005, 1},    // half rounds away from zero
		{-0.0005, -1},  // ... in both directions
		{-0.1254, -125},
	}
	for _, tc := range cases {
		if got := roundDelayMs(tc.seconds); got != tc.want {
			t.Errorf("roundDelayMs(%v) = %d, want %d", tc.seconds, got, tc.want)
		}
	}
}

func TestNormalizeLanguage(t *testing.T) {
	cases := map[string]string{
		"":        "und",
		" ENG ":   "eng",
		"ja":      "ja",
		"zz!":     "und",
		"und":     "und",
		"pt-BR":   "pt-br",
	}
	for input, want := range cases {
		if got := NormalizeLanguage(input); got != want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", input, got, want)
		}
	}
}
