package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"trackmix/internal/config"
)

// Requirement defines an external dependency trackmix relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}

// Requirements returns the external binaries a processing run needs,
// resolved from config.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "ffprobe", Command: cfg.Tools.FFprobe, Description: "stream-level codec and channel probing"},
		{Name: "ffmpeg", Command: cfg.Tools.FFmpeg, Description: "audio extraction, normalization and Opus encoding"},
		{Name: "mkvmerge", Command: cfg.Tools.MKVMerge, Description: "container identification and remuxing"},
		{Name: "mediainfo", Command: cfg.Tools.MediaInfo, Description: "per-track A/V sync delay probing"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
