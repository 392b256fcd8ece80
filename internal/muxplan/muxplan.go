package muxplan

import (
	"strconv"
	"strings"

	"trackmix/internal/pipeline"
)

// Inputs carries everything the plan needs: the original container's track
// partition and the transcoded artifacts in audio-stream encounter order.
type Inputs struct {
	OutputPath    string
	InputPath     string
	VideoIDs      []int64
	SubtitleIDs   []int64
	AttachmentIDs []int64
	// RemuxAudioIDs are the original audio tracks kept as-is (remux and
	// fallback decisions). Empty means all original audio is excluded.
	RemuxAudioIDs []int64
	Artifacts     []pipeline.Artifact
}

// Plan is the assembled mkvmerge argument list. Built once, executed once,
// never mutated after construction.
type Plan struct {
	Args []string
}

// Build assembles the remux command plan. Track order follows the original
// container; re-encoded audio is appended after the original container
// reference, the way mkvmerge expects external-file tracks.
func Build(in Inputs) Plan {
	args := []string{"-o", in.OutputPath}

	if len(in.VideoIDs) > 0 {
		args = append(args, "-d", joinIDs(in.VideoIDs))
	}
	if len(in.SubtitleIDs) > 0 {
		args = append(args, "-s", joinIDs(in.SubtitleIDs))
	}
	if len(in.AttachmentIDs) > 0 {
		args = append(args, "-t", joinIDs(in.AttachmentIDs))
	}
	if len(in.RemuxAudioIDs) > 0 {
		args = append(args, "-a", joinIDs(in.RemuxAudioIDs))
	} else {
		args = append(args, "--no-audio")
	}

	args = append(args, in.InputPath)

	for _, artifact := range in.Artifacts {
		args = append(args, "--language", "0:"+artifact.Language)
		if artifact.Title != "" {
			args = append(args, "--track-name", "0:"+artifact.Title)
		}
		if artifact.DelayMs != 0 {
			args = append(args, "--sync", "0:"+strconv.Itoa(artifact.DelayMs))
		}
		args = append(args, artifact.FilePath)
	}

	return Plan{Args: args}
}

// String renders the plan for logging and dry runs.
func (p Plan) String() string {
	return strings.Join(p.Args, " ")
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}
