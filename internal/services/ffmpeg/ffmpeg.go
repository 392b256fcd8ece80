package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"trackmix/internal/media/downmix"
)

var commandContext = exec.CommandContext

// loudnorm targets for the normalize stage: EBU R128 streaming levels with
// enough true-peak headroom to stay clip-safe through the Opus encode.
const loudnormFilter = "loudnorm=I=-16:TP=-1.5:LRA=11"

// Runner invokes ffmpeg for the per-track transcode stages.
type Runner struct {
	binary string
}

// NewRunner constructs a Runner around the given ffmpeg binary.
func NewRunner(binary string) *Runner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Runner{binary: binary}
}

// ExtractArgs builds the argument list for the extract stage: demux one
// audio stream into a lossless FLAC intermediate, applying the downmix at
// this stage so later stages see the final layout.
func ExtractArgs(input string, streamIndex int, formula downmix.Formula, output string) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", input,
		"-map", "0:" + strconv.Itoa(streamIndex),
	}
	if pan := formula.PanFilter(); pan != "" {
		args = append(args, "-af", pan)
	} else if formula.Shape == downmix.ShapeGeneric {
		// Irregular layouts fold to stereo without custom weighting.
		args = append(args, "-ac", "2")
	}
	args = append(args, "-c:a", "flac", output)
	return args
}

// NormalizeArgs builds the argument list for the normalize stage.
func NormalizeArgs(input, output string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", input,
		"-af", loudnormFilter,
		"-c:a", "flac", output,
	}
}

// EncodeArgs builds the argument list for the encode stage: Opus at the
// resolved bitrate, variable-bitrate mode.
func EncodeArgs(input string, bitrateKbps int, output string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", input,
		"-c:a", "libopus",
		"-b:a", strconv.Itoa(bitrateKbps) + "k",
		"-vbr", "on",
		output,
	}
}

// Run executes ffmpeg with the given argument list.
func (r *Runner) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("ffmpeg run: empty argument list")
	}
	cmd := commandContext(ctx, r.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
