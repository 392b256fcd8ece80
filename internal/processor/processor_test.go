package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"trackmix/internal/config"
	"trackmix/internal/history"
	"trackmix/internal/media/classify"
	"trackmix/internal/media/descriptor"
)

const ffprobeDTS = `{"streams": [
  {"index": 0, "codec_name": "h264", "codec_type": "video"},
  {"index": 1, "codec_name": "dts", "codec_type": "audio", "channels": 6, "tags": {"language": "eng"}}
]}`

const mkvmergeDTS = `{"tracks": [
  {"id": 0, "type": "video", "properties": {}},
  {"id": 1, "type": "audio", "properties": {"track_name": "Surround 5.1", "language": "eng"}}
]}`

const mediainfoDTS = `{"media": {"track": [
  {"@type": "Audio", "StreamOrder": "1", "Video_Delay": "0.0337"}
]}}`

const ffprobeAAC = `{"streams": [
  {"index": 0, "codec_name": "h264", "codec_type": "video"},
  {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 2, "tags": {"language": "eng"}}
]}`

const mkvmergeAAC = `{"tracks": [
  {"id": 0, "type": "video", "properties": {}},
  {"id": 1, "type": "audio", "properties": {"language": "eng"}}
]}`

const mediainfoAAC = `{"media": {"track": [
  {"@type": "Audio", "StreamOrder": "1"}
]}}`

type testEnv struct {
	cfg       *config.Config
	input     string
	output    string
	ffmpegLog string
	muxLog    string
}

func newTestEnv(t *testing.T, ffprobeJSON, mkvmergeJSON, mediainfoJSON string) *testEnv {
	t.Helper()
	binDir := t.TempDir()
	logDir := t.TempDir()
	env := &testEnv{
		ffmpegLog: filepath.Join(logDir, "ffmpeg.log"),
		muxLog:    filepath.Join(logDir, "mux.log"),
	}

	writeScript(t, filepath.Join(binDir, "ffprobe"), catScript(ffprobeJSON))
	writeScript(t, filepath.Join(binDir, "mediainfo"), catScript(mediainfoJSON))
	writeScript(t, filepath.Join(binDir, "mkvmerge"), fmt.Sprintf(`#!/bin/sh
if [ "$1" = "-J" ]; then
cat <<'PAYLOAD'
%s
PAYLOAD
exit 0
fi
echo "$@" >> %q
exit 0
`, mkvmergeJSON, env.muxLog))
	writeScript(t, filepath.Join(binDir, "ffmpeg"), fmt.Sprintf(`#!/bin/sh
echo "$@" >> %q
for a; do out="$a"; done
: > "$out"
exit 0
`, env.ffmpegLog))

	cfg := config.Default()
	cfg.Tools.FFprobe = filepath.Join(binDir, "ffprobe")
	cfg.Tools.FFmpeg = filepath.Join(binDir, "ffmpeg")
	cfg.Tools.MKVMerge = filepath.Join(binDir, "mkvmerge")
	cfg.Tools.MediaInfo = filepath.Join(binDir, "mediainfo")
	cfg.Paths.WorkspaceDir = t.TempDir()
	cfg.Paths.LogDir = logDir
	cfg.History.Enabled = false
	env.cfg = &cfg

	mediaDir := t.TempDir()
	env.input = filepath.Join(mediaDir, "in.mkv")
	env.output = filepath.Join(mediaDir, "out.mkv")
	if err := os.WriteFile(env.input, []byte("mkv"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return env
}

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
}

func catScript(payload string) string {
	return fmt.Sprintf("#!/bin/sh\ncat <<'PAYLOAD'\n%s\nPAYLOAD\nexit 0\n", payload)
}

func (e *testEnv) ffmpegCalls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.ffmpegLog)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read ffmpeg log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func (e *testEnv) muxCalls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.muxLog)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read mux log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestRunTranscodesDTSWithDownmix(t *testing.T) {
	env := newTestEnv(t, ffprobeDTS, mkvmergeDTS, mediainfoDTS)
	p := New(env.cfg, nil, nil)

	result, err := p.Run(context.Background(), Request{
		InputPath:  env.input,
		OutputPath: env.output,
		Downmix:    true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.Artifacts) != 1 {
		t.Fatalf("artifacts = %d, want 1", len(result.Artifacts))
	}
	artifact := result.Artifacts[0]
	if artifact.BitrateKbps != 128 {
		t.Fatalf("downmixed 5.1 bitrate = %d, want 128", artifact.BitrateKbps)
	}
	if artifact.DelayMs != 34 {
		t.Fatalf("delay = %d, want 34", artifact.DelayMs)
	}

	calls := env.ffmpegCalls(t)
	if len(calls) != 3 {
		t.Fatalf("ffmpeg calls = %d, want 3 (extract/normalize/encode)", len(calls))
	}
	if !strings.Contains(calls[0], "pan=stereo|FL=FC+0.30*FL+0.30*BL|FR=FC+0.30*FR+0.30*BR") {
		t.Fatalf("dialogue-boost formula missing from extract: %s", calls[0])
	}
	if !strings.Contains(calls[2], "128k") {
		t.Fatalf("encode bitrate missing: %s", calls[2])
	}

	mux := env.muxCalls(t)
	if len(mux) != 1 {
		t.Fatalf("mux calls = %d, want 1", len(mux))
	}
	// No subtitles or attachments in the container, so no -s/-t groups.
	if strings.Contains(mux[0], "-s ") || strings.Contains(mux[0], "-t ") {
		t.Fatalf("empty groups must be omitted: %s", mux[0])
	}
	if !strings.Contains(mux[0], "--no-audio") {
		t.Fatalf("all original audio replaced, expected --no-audio: %s", mux[0])
	}
	if !strings.Contains(mux[0], "--sync 0:34") {
		t.Fatalf("sync directive missing: %s", mux[0])
	}
	if !strings.Contains(mux[0], "--track-name 0:Surround 5.1") {
		t.Fatalf("track name missing: %s", mux[0])
	}

	// Workspace removed after the run.
	entries, err := os.ReadDir(env.cfg.Paths.WorkspaceDir)
	if err != nil {
		t.Fatalf("read workspace root: %v", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			t.Fatalf("workspace leaked: %s", entry.Name())
		}
	}
}

func TestRunRemuxesAACWithoutEncoding(t *testing.T) {
	env := newTestEnv(t, ffprobeAAC, mkvmergeAAC, mediainfoAAC)
	p := New(env.cfg, nil, nil)

	result, err := p.Run(context.Background(), Request{InputPath: env.input, OutputPath: env.output})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Artifacts) != 0 {
		t.Fatalf("artifacts = %d, want 0", len(result.Artifacts))
	}
	if calls := env.ffmpegCalls(t); len(calls) != 0 {
		t.Fatalf("ffmpeg should not run for remux-only container: %v", calls)
	}
	mux := env.muxCalls(t)
	if len(mux) != 1 || !strings.Contains(mux[0], "-a 1") {
		t.Fatalf("original audio selection missing: %v", mux)
	}
}

func TestRunFallbackForUnsupportedCodec(t *testing.T) {
	ffprobeJSON := strings.ReplaceAll(ffprobeAAC, "aac", "truehd")
	env := newTestEnv(t, ffprobeJSON, mkvmergeAAC, mediainfoAAC)
	p := New(env.cfg, nil, nil)

	result, err := p.Run(context.Background(), Request{InputPath: env.input, OutputPath: env.output})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "unsupported codec") {
		t.Fatalf("warnings = %v", result.Warnings)
	}
	if len(classify.Fallbacks(result.Decisions)) != 1 {
		t.Fatalf("expected one fallback decision: %+v", result.Decisions)
	}
	if calls := env.ffmpegCalls(t); len(calls) != 0 {
		t.Fatalf("fallback track must not enter the pipeline: %v", calls)
	}
	if mux := env.muxCalls(t); len(mux) != 1 || !strings.Contains(mux[0], "-a 1") {
		t.Fatalf("fallback track must be remuxed: %v", mux)
	}
}

func TestRunDryRunInvokesNothing(t *testing.T) {
	env := newTestEnv(t, ffprobeDTS, mkvmergeDTS, mediainfoDTS)
	p := New(env.cfg, nil, nil)

	result, err := p.Run(context.Background(), Request{
		InputPath:  env.input,
		OutputPath: env.output,
		Downmix:    true,
		DryRun:     true,
	})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if len(result.Plan.Args) == 0 {
		t.Fatal("dry run should still build the plan")
	}
	if calls := env.ffmpegCalls(t); len(calls) != 0 {
		t.Fatalf("dry run invoked ffmpeg: %v", calls)
	}
	if mux := env.muxCalls(t); len(mux) != 0 {
		t.Fatalf("dry run invoked mkvmerge mux: %v", mux)
	}
	entries, err := os.ReadDir(env.cfg.Paths.WorkspaceDir)
	if err != nil {
		t.Fatalf("read workspace root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("dry run created workspace entries: %v", entries)
	}
}

func TestRunInputNotFound(t *testing.T) {
	env := newTestEnv(t, ffprobeAAC, mkvmergeAAC, mediainfoAAC)
	p := New(env.cfg, nil, nil)

	_, err := p.Run(context.Background(), Request{InputPath: env.input + ".missing", OutputPath: env.output})
	if !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("expected ErrInputNotFound, got %v", err)
	}
}

func TestRunToolMissing(t *testing.T) {
	env := newTestEnv(t, ffprobeAAC, mkvmergeAAC, mediainfoAAC)
	env.cfg.Tools.MediaInfo = "no-such-mediainfo-binary"
	p := New(env.cfg, nil, nil)

	_, err := p.Run(context.Background(), Request{InputPath: env.input, OutputPath: env.output})
	if !errors.Is(err, ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
	if !strings.Contains(err.Error(), "mediainfo") {
		t.Fatalf("error should name the missing tool: %v", err)
	}
}

func TestRunDescriptorMismatch(t *testing.T) {
	// mkvmerge reports one track fewer than ffprobe.
	mkvmergeShort := `{"tracks": [{"id": 0, "type": "video", "properties": {}}]}`
	env := newTestEnv(t, ffprobeAAC, mkvmergeShort, mediainfoAAC)
	p := New(env.cfg, nil, nil)

	_, err := p.Run(context.Background(), Request{InputPath: env.input, OutputPath: env.output})
	if !errors.Is(err, descriptor.ErrMismatch) {
		t.Fatalf("expected descriptor mismatch, got %v", err)
	}
	if calls := env.ffmpegCalls(t); len(calls) != 0 {
		t.Fatalf("no pipeline work after mismatch: %v", calls)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	env := newTestEnv(t, ffprobeDTS, mkvmergeDTS, mediainfoDTS)
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()

	p := New(env.cfg, nil, store)
	if _, err := p.Run(context.Background(), Request{InputPath: env.input, OutputPath: env.output, Downmix: true}); err != nil {
		t.Fatalf("run: %v", err)
	}

	records, err := store.List(context.Background(), 5)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	record := records[0]
	if record.Status != history.StatusCompleted || !record.Downmix {
		t.Fatalf("record = %+v", record)
	}
	if record.Transcoded != 1 || record.Remuxed != 0 {
		t.Fatalf("counts = %+v", record)
	}
}

func TestDescribeOrdersAudioByEncounter(t *testing.T) {
	ffprobeJSON := `{"streams": [
	  {"index": 0, "codec_name": "h264", "codec_type": "video"},
	  {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 2},
	  {"index": 2, "codec_name": "dts", "codec_type": "audio", "channels": 6}
	]}`
	mkvmergeJSON := `{"tracks": [
	  {"id": 0, "type": "video", "properties": {}},
	  {"id": 1, "type": "audio", "properties": {}},
	  {"id": 2, "type": "audio", "properties": {}}
	]}`
	env := newTestEnv(t, ffprobeJSON, mkvmergeJSON, mediainfoAAC)
	p := New(env.cfg, nil, nil)

	media, err := p.Describe(context.Background(), env.input)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	audio := media.AudioTracks()
	indexes := []int{audio[0].StreamIndex, audio[1].StreamIndex}
	if !slices.Equal(indexes, []int{1, 2}) {
		t.Fatalf("audio order = %v", indexes)
	}
}
