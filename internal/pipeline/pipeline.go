package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"trackmix/internal/logging"
	"trackmix/internal/media/descriptor"
	"trackmix/internal/media/downmix"
	"trackmix/internal/services/ffmpeg"
)

// StageRunner executes one external tool invocation. *ffmpeg.Runner is the
// production implementation; tests substitute a recorder.
type StageRunner interface {
	Run(ctx context.Context, args []string) error
}

// Artifact is the result of transcoding one audio track: the encoded file
// plus the original track metadata to reattach at mux time.
type Artifact struct {
	FilePath    string
	Language    string
	Title       string
	DelayMs     int
	BitrateKbps int
	StreamIndex int
}

// Pipeline runs the extract, normalize and encode stages for each
// transcode-classified track.
type Pipeline struct {
	runner  StageRunner
	input   string
	workDir string
}

// New constructs a Pipeline reading from input and writing intermediates
// into workDir.
func New(runner StageRunner, input, workDir string) *Pipeline {
	return &Pipeline{runner: runner, input: input, workDir: workDir}
}

// PlanArtifact computes the artifact a track will produce without running
// anything: the deterministic output path plus resolved metadata and
// bitrate. Dry runs render mux plans from this alone.
func PlanArtifact(workDir string, track descriptor.TrackInfo, downmixRequested bool) Artifact {
	return Artifact{
		FilePath:    stagePath(workDir, track.StreamIndex, "encoded", "opus"),
		Language:    track.Language,
		Title:       track.Title,
		DelayMs:     track.DelayMs,
		BitrateKbps: downmix.Bitrate(track.ChannelCount, downmixRequested),
		StreamIndex: track.StreamIndex,
	}
}

// Process runs the three stages for a single track and returns its artifact.
// Stage files are named by stream index and stage, so concurrently processed
// tracks can never collide.
func (p *Pipeline) Process(ctx context.Context, track descriptor.TrackInfo, downmixRequested bool) (Artifact, error) {
	artifact := PlanArtifact(p.workDir, track, downmixRequested)
	formula := downmix.Plan(track.ChannelCount, downmixRequested)

	extracted := stagePath(p.workDir, track.StreamIndex, "extracted", "flac")
	normalized := stagePath(p.workDir, track.StreamIndex, "normalized", "flac")

	logger := logging.FromContext(ctx).With(
		"stream", track.StreamIndex,
		"codec", track.Codec,
		"channels", track.ChannelCount,
	)
	logger.Debug("extracting track", "downmix", string(formula.Shape))
	if err := p.runner.Run(ctx, ffmpeg.ExtractArgs(p.input, track.StreamIndex, formula, extracted)); err != nil {
		return Artifact{}, fmt.Errorf("extract stream %d: %w", track.StreamIndex, err)
	}

	logger.Debug("normalizing track")
	if err := p.runner.Run(ctx, ffmpeg.NormalizeArgs(extracted, normalized)); err != nil {
		return Artifact{}, fmt.Errorf("normalize stream %d: %w", track.StreamIndex, err)
	}

	logger.Debug("encoding track", "bitrate_kbps", artifact.BitrateKbps)
	if err := p.runner.Run(ctx, ffmpeg.EncodeArgs(normalized, artifact.BitrateKbps, artifact.FilePath)); err != nil {
		return Artifact{}, fmt.Errorf("encode stream %d: %w", track.StreamIndex, err)
	}

	return artifact, nil
}

// ProcessAll transcodes the given tracks sequentially in encounter order.
// The first failing stage aborts the remaining tracks.
func (p *Pipeline) ProcessAll(ctx context.Context, tracks []descriptor.TrackInfo, downmixRequested bool) ([]Artifact, error) {
	artifacts := make([]Artifact, 0, len(tracks))
	for _, track := range tracks {
		artifact, err := p.Process(ctx, track, downmixRequested)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

func stagePath(workDir string, streamIndex int, stage, ext string) string {
	return filepath.Join(workDir, fmt.Sprintf("track%d_%s.%s", streamIndex, stage, ext))
}
