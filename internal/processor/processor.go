package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"trackmix/internal/config"
	"trackmix/internal/deps"
	"trackmix/internal/history"
	"trackmix/internal/logging"
	"trackmix/internal/media/classify"
	"trackmix/internal/media/descriptor"
	"trackmix/internal/media/ffprobe"
	"trackmix/internal/muxplan"
	"trackmix/internal/pipeline"
	"trackmix/internal/services/ffmpeg"
	"trackmix/internal/services/mediainfo"
	"trackmix/internal/services/mkvmerge"
	"trackmix/internal/workspace"
)

// Fatal error categories surfaced to the caller. Everything is wrapped with
// enough context to identify the failing stage and track.
var (
	ErrToolMissing   = errors.New("required external tool missing")
	ErrInputNotFound = errors.New("input file not found")
	// ErrExternalTool marks a failure in any extract/normalize/encode/mux
	// invocation.
	ErrExternalTool = errors.New("external tool failure")
)

// Request describes one processing run.
type Request struct {
	InputPath  string
	OutputPath string
	Downmix    bool
	// DryRun stops after planning: decisions and the mux plan are
	// computed and logged, but no workspace is created and no external
	// tool is invoked.
	DryRun bool
}

// Result summarizes a completed (or planned) run.
type Result struct {
	Decisions  []classify.Decision
	Artifacts  []pipeline.Artifact
	Plan       muxplan.Plan
	Warnings   []string
	OutputPath string
	Duration   time.Duration
}

// Processor orchestrates the probe, classify, transcode and remux steps for
// a single input container.
type Processor struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *history.Store
}

// New constructs a Processor. The history store is optional; nil disables
// run recording.
func New(cfg *config.Config, logger *slog.Logger, store *history.Store) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{cfg: cfg, logger: logger, store: store}
}

// Run executes one processing run end to end. The workspace is torn down on
// every exit path, including fatal aborts.
func (p *Processor) Run(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	result, err := p.run(ctx, req)
	if result != nil {
		result.Duration = time.Since(started)
	}
	if !req.DryRun {
		p.record(ctx, req, result, time.Since(started), err)
	}
	return result, err
}

func (p *Processor) run(ctx context.Context, req Request) (*Result, error) {
	if _, err := os.Stat(req.InputPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, req.InputPath)
		}
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if err := p.checkTools(); err != nil {
		return nil, err
	}

	media, err := p.describe(ctx, req.InputPath)
	if err != nil {
		return nil, err
	}

	decisions := classify.ClassifyAll(media.AudioTracks())
	result := &Result{Decisions: decisions, OutputPath: req.OutputPath}
	for _, fallback := range classify.Fallbacks(decisions) {
		warning := fmt.Sprintf("track %d (%s): unsupported codec, passing through unchanged",
			fallback.Track.TrackID, fallback.Track.Codec)
		result.Warnings = append(result.Warnings, warning)
		p.logger.Warn("unsupported audio codec",
			"track_id", fallback.Track.TrackID,
			"codec", fallback.Track.Codec,
		)
	}
	transcodeTracks := classify.TranscodeTracks(decisions)
	p.logger.Info("classified audio tracks",
		"total", len(decisions),
		"remux", len(classify.RemuxIDs(decisions))-len(classify.Fallbacks(decisions)),
		"transcode", len(transcodeTracks),
		"fallback", len(classify.Fallbacks(decisions)),
	)

	if req.DryRun {
		for _, track := range transcodeTracks {
			result.Artifacts = append(result.Artifacts, pipeline.PlanArtifact("<workspace>", track, req.Downmix))
		}
		result.Plan = p.buildPlan(req, media, decisions, result.Artifacts)
		p.logger.Info("dry run complete", "mkvmerge_args", result.Plan.String())
		return result, nil
	}

	ws, err := workspace.Acquire(p.cfg.Paths.WorkspaceDir)
	if err != nil {
		return result, fmt.Errorf("acquire workspace: %w", err)
	}
	defer func() {
		if cleanupErr := ws.Cleanup(); cleanupErr != nil {
			p.logger.Warn("workspace cleanup failed", "error", cleanupErr)
		}
	}()

	runCtx := logging.WithContext(ctx, p.logger)
	pipe := pipeline.New(ffmpegRunner(p.cfg), req.InputPath, ws.Dir)
	artifacts, err := pipe.ProcessAll(runCtx, transcodeTracks, req.Downmix)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrExternalTool, err)
	}
	result.Artifacts = artifacts

	result.Plan = p.buildPlan(req, media, decisions, artifacts)
	p.logger.Info("remuxing container", "output", req.OutputPath, "artifacts", len(artifacts))
	if err := mkvmerge.Mux(ctx, p.cfg.Tools.MKVMerge, result.Plan.Args); err != nil {
		return result, fmt.Errorf("%w: %v", ErrExternalTool, err)
	}

	p.logger.Info("processing complete", "output", req.OutputPath)
	return result, nil
}

// Describe probes the input and returns the merged track listing. Exported
// for the read-only `trackmix inspect` command.
func (p *Processor) Describe(ctx context.Context, inputPath string) (descriptor.Media, error) {
	if _, err := os.Stat(inputPath); err != nil {
		if os.IsNotExist(err) {
			return descriptor.Media{}, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
		}
		return descriptor.Media{}, fmt.Errorf("stat input: %w", err)
	}
	return p.describe(ctx, inputPath)
}

func (p *Processor) describe(ctx context.Context, inputPath string) (descriptor.Media, error) {
	probe, err := ffprobe.Inspect(ctx, p.cfg.Tools.FFprobe, inputPath)
	if err != nil {
		return descriptor.Media{}, fmt.Errorf("%w: %v", ErrExternalTool, err)
	}
	container, err := mkvmerge.Identify(ctx, p.cfg.Tools.MKVMerge, inputPath)
	if err != nil {
		return descriptor.Media{}, fmt.Errorf("%w: %v", ErrExternalTool, err)
	}
	delays, err := mediainfo.Inspect(ctx, p.cfg.Tools.MediaInfo, inputPath)
	if err != nil {
		return descriptor.Media{}, fmt.Errorf("%w: %v", ErrExternalTool, err)
	}
	return descriptor.Merge(probe, container, delays)
}

func (p *Processor) buildPlan(req Request, media descriptor.Media, decisions []classify.Decision, artifacts []pipeline.Artifact) muxplan.Plan {
	return muxplan.Build(muxplan.Inputs{
		OutputPath:    req.OutputPath,
		InputPath:     req.InputPath,
		VideoIDs:      media.TrackIDs(descriptor.TrackVideo),
		SubtitleIDs:   media.TrackIDs(descriptor.TrackSubtitle),
		AttachmentIDs: media.AttachmentIDs,
		RemuxAudioIDs: classify.RemuxIDs(decisions),
		Artifacts:     artifacts,
	})
}

func ffmpegRunner(cfg *config.Config) *ffmpeg.Runner {
	return ffmpeg.NewRunner(cfg.Tools.FFmpeg)
}

func (p *Processor) checkTools() error {
	var missing []string
	for _, status := range deps.CheckBinaries(deps.Requirements(p.cfg)) {
		if !status.Available {
			missing = append(missing, status.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrToolMissing, strings.Join(missing, ", "))
	}
	return nil
}

func (p *Processor) record(ctx context.Context, req Request, result *Result, duration time.Duration, runErr error) {
	if p.store == nil {
		return
	}
	record := history.Record{
		InputPath:  req.InputPath,
		OutputPath: req.OutputPath,
		Downmix:    req.Downmix,
		Status:     history.StatusCompleted,
		Duration:   duration,
	}
	if runErr != nil {
		record.Status = history.StatusFailed
		record.ErrorText = runErr.Error()
	}
	if result != nil {
		record.Fallback = len(classify.Fallbacks(result.Decisions))
		record.Transcoded = len(result.Artifacts)
		record.Remuxed = len(classify.RemuxIDs(result.Decisions)) - record.Fallback
	}
	if _, err := p.store.Add(ctx, record); err != nil {
		p.logger.Warn("history record failed", "error", err)
	}
}
